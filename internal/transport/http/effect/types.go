package effect

// StatusData describes the engine defaults and capabilities reported by the
// GET endpoint.
type StatusData struct {
	Modes            []string `json:"modes"`
	Mode             string   `json:"mode"`
	Source           string   `json:"source"`
	Dest             string   `json:"dest"`
	HeaderProtection bool     `json:"header_protection"`
	Active           bool     `json:"active"`
	DecodeTimeoutMS  int64    `json:"decode_timeout_ms"`
	MinIntervalMS    int64    `json:"min_interval_ms"`
}

// request carries the parsed multipart form of one effect pass.
type request struct {
	frameData        []byte
	frameMime        string
	preset           string
	mode             string
	source           string
	dest             string
	headerProtection *bool
	active           *bool
}
