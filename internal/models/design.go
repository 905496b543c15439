package models

// DesignRequest is the structured intent extracted from a chat message.
type DesignRequest struct {
	Phrase           string  `json:"phrase" validate:"required"`
	Style            string  `json:"style"`
	WantsImage       bool    `json:"wants_image"`
	ImageDescription *string `json:"image_description,omitempty"`
	ColorPreference  *string `json:"color_preference,omitempty"`
}

// DesignResult is the uniform outcome record of a design request. Failures
// are reported here, never as errors, so every caller renders the same way.
type DesignResult struct {
	Success      bool   `json:"success"`
	ProductURL   string `json:"product_url,omitempty"`
	ResponseText string `json:"response_text"`
	ErrorText    string `json:"error_text,omitempty"`
	Phrase       string `json:"phrase,omitempty"`
}
