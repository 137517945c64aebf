package notification

import "encoding/json"

// Notice is one workflow event worth telling someone about. Every notice is
// written to the audit log; notices addressed to a technician are also
// pushed to that technician's browsers.
type Notice struct {
	Event        string `json:"event"`
	RequestID    int64  `json:"requestId"`
	TechnicianID int64  `json:"-"`
	Actor        int64  `json:"-"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}

// Payload is the JSON body delivered to the service worker.
func (n Notice) Payload() []byte {
	b, _ := json.Marshal(n)
	return b
}
