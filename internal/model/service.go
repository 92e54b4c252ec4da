package model

// MaskToken is the reserved value that replaces sensitive response values.
const MaskToken = "***MASKED***"

// Service is an operation advertised by the WSDL.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	XSDFile     string `json:"xsd_file,omitempty"`
}

// Endpoint is the gateway endpoint resolved for a service.
type Endpoint struct {
	Endpoint string `json:"endpoint"`
	Method   string `json:"method,omitempty"`
	File     string `json:"file,omitempty"`
}

// InputParam describes one request parameter of a service.
type InputParam struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	Type        string `json:"type,omitempty"`
	XSDType     string `json:"xsd_type,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Example     string `json:"example,omitempty"`
}

// ServiceFields is everything the backend knows about one service.
type ServiceFields struct {
	Service     string        `json:"service,omitempty"`
	Fields      []FieldRecord `json:"fields"`
	Endpoint    *Endpoint     `json:"endpoint,omitempty"`
	InputParams []InputParam  `json:"input_params"`
	TotalFields int           `json:"total_fields,omitempty"`
}

// Result statuses reported by the request sender.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RequestResult is the outcome of a test request sent through the gateway.
type RequestResult struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
	Service    string `json:"service,omitempty"`
}

// Failed reports whether the result carries an error status.
func (r RequestResult) Failed() bool {
	return r.Status != StatusSuccess
}

// FilterConfig is the saved selection of a service as consumed by the gateway.
type FilterConfig struct {
	Service         string   `json:"service"`
	SelectedFields  []string `json:"selected_fields"`
	SensitiveFields []string `json:"sensitive_fields"`
}
