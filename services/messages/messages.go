package messages

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paycrest/bridge-wallet/utils"
	"github.com/xeipuuv/gojsonschema"
)

// Inquiry event types posted by the hosted identity flow
const (
	InquiryComplete = "persona:inquiry:complete"
	InquiryStatus   = "persona:inquiry:status"
)

const payloadSchema = `{
	"oneOf": [
		{
			"type": "object",
			"required": ["signedAgreementId"],
			"properties": {
				"signedAgreementId": {"type": "string", "minLength": 1},
				"action": {"type": "string"},
				"hideSuccess": {"type": "boolean"}
			}
		},
		{
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {"enum": ["persona:inquiry:complete", "persona:inquiry:status"]}
			},
			"not": {"required": ["signedAgreementId"]}
		}
	]
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

// Message is a cross-origin event accepted by the widget
type Message interface {
	messageKind() string
}

// AgreementSigned is posted once the terms of service have been signed
type AgreementSigned struct {
	SignedAgreementID string `json:"signedAgreementId"`
	Action            string `json:"action,omitempty"`
	HideSuccess       bool   `json:"hideSuccess,omitempty"`
}

func (AgreementSigned) messageKind() string { return "agreement_signed" }

// InquiryEvent is posted by the hosted identity flow
type InquiryEvent struct {
	Type string `json:"type"`
}

func (InquiryEvent) messageKind() string { return "inquiry" }

// Complete reports whether the inquiry finished
func (e InquiryEvent) Complete() bool {
	return e.Type == InquiryComplete
}

// ErrOriginNotAllowed is returned for messages from untrusted origins
type ErrOriginNotAllowed struct {
	Origin string
}

func (e ErrOriginNotAllowed) Error() string {
	return fmt.Sprintf("origin %q is not allowed", e.Origin)
}

// ErrInvalidPayload is returned for payloads matching no known shape
type ErrInvalidPayload struct {
	Reasons []string
}

func (e ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid message payload: %s", strings.Join(e.Reasons, "; "))
}

// Parser validates origin and shape of incoming messages
type Parser struct {
	appOrigin string
	allowList []string
}

// NewParser creates a parser trusting appOrigin and the allow-listed hosts
func NewParser(appOrigin string, allowList []string) *Parser {
	return &Parser{appOrigin: appOrigin, allowList: allowList}
}

// Parse checks the origin, validates the payload and decodes it
func (p *Parser) Parse(origin string, payload []byte) (Message, error) {
	if !utils.IsOriginAllowed(origin, p.appOrigin, p.allowList) {
		return nil, ErrOriginNotAllowed{Origin: origin}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, ErrInvalidPayload{Reasons: []string{err.Error()}}
	}
	if !result.Valid() {
		var reasons []string
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return nil, ErrInvalidPayload{Reasons: reasons}
	}

	var probe struct {
		SignedAgreementID *string `json:"signedAgreementId"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, ErrInvalidPayload{Reasons: []string{err.Error()}}
	}

	if probe.SignedAgreementID != nil {
		var msg AgreementSigned
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, ErrInvalidPayload{Reasons: []string{err.Error()}}
		}
		return msg, nil
	}

	var msg InquiryEvent
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, ErrInvalidPayload{Reasons: []string{err.Error()}}
	}
	return msg, nil
}
