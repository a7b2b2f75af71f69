package model

// PreferenceItem is one line of the outbound checkout preference. The
// unit_price of every non-shipping line comes from the catalog lookup,
// never from client input.
type PreferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
	PictureURL string  `json:"picture_url,omitempty"`
}

// PreferencePhone holds a digits-only contact number.
type PreferencePhone struct {
	Number string `json:"number"`
}

// PreferenceAddress holds the payer address with a digits-only postal code.
type PreferenceAddress struct {
	ZipCode    string `json:"zip_code"`
	StreetName string `json:"street_name,omitempty"`
}

// PreferencePayer identifies the payer on the hosted checkout.
type PreferencePayer struct {
	Email   string             `json:"email"`
	Name    string             `json:"name,omitempty"`
	Surname string             `json:"surname,omitempty"`
	Phone   *PreferencePhone   `json:"phone,omitempty"`
	Address *PreferenceAddress `json:"address,omitempty"`
}

// PreferenceBackURLs are the redirect targets after the hosted checkout.
type PreferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// Preference is the payload sent to the payment processor's
// preference-creation endpoint.
type Preference struct {
	Items               []PreferenceItem   `json:"items"`
	Payer               PreferencePayer    `json:"payer"`
	BackURLs            PreferenceBackURLs `json:"back_urls"`
	AutoReturn          string             `json:"auto_return,omitempty"`
	NotificationURL     string             `json:"notification_url"`
	StatementDescriptor string             `json:"statement_descriptor"`
	ExternalReference   string             `json:"external_reference"`
}

// PreferenceResult is the subset of the processor's response surfaced
// back to the client.
type PreferenceResult struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}
