package dispatch

import (
	neturl "net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Result is the outcome of one dispatch attempt. OK means the service
// answered 200; every other outcome carries a Diagnostic instead.
type Result struct {
	OK         bool
	AttemptID  string
	Endpoint   string
	Status     int
	Body       []byte
	Diagnostic string
}

func (r *Result) BodyString() string {
	return string(r.Body)
}

// MessageID is the id of the message the service reported back, or "" when
// the response had none.
func (r *Result) MessageID() string {
	return gjson.GetBytes(r.Body, "id").String()
}

// MessageLink rebuilds the in-app link to the edited message from the
// endpoint's channel segment and the response id.
func (r *Result) MessageLink() string {
	id := r.MessageID()
	if id == "" {
		return ""
	}

	u, err := neturl.Parse(r.Endpoint)
	if err != nil {
		return ""
	}

	// /api/v<N>/channels/<channel>/messages
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 {
		return ""
	}
	channel := parts[len(parts)-2]

	return u.Scheme + "://" + u.Host + "/channels/@me/" + channel + "/" + id
}
