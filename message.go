package prospect

// Action names a request in the message protocol.
type Action string

// Message protocol actions.
const (
	ActionPing           Action = "ping"
	ActionExtractProfile Action = "extractProfileData"
	ActionFetchContact   Action = "fetchContactData"
	ActionTestCredential Action = "testCredential"
	ActionNavigate       Action = "navigate"
	ActionCloseTab       Action = "closeTab"
)

// Request is a message protocol request. Only the fields relevant to the
// action are set.
type Request struct {
	ID     string `json:"id,omitempty"`
	Action Action `json:"action"`

	// Tab identifies the page context a request belongs to. A newer request
	// for the same tab supersedes older in-flight ones.
	Tab string `json:"tab,omitempty"`

	URL     string   `json:"url,omitempty"`
	HTML    string   `json:"html,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	APIKey  string   `json:"apiKey,omitempty"`
}

// Envelope is the uniform response shape for every action.
type Envelope struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Succeed returns a successful envelope carrying data.
func Succeed(id string, data any) Envelope {
	return Envelope{ID: id, Success: true, Data: data}
}

// Fail returns a failed envelope for err. Only the application message is
// exposed; internal errors are reported as "Internal error.".
func Fail(id string, err error) Envelope {
	return Envelope{ID: id, Error: ErrorMessage(err), Code: ErrorCode(err)}
}
