package model

import (
	"fmt"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// NotifyConfig configures a confirmation email sent to the applicant.
type NotifyConfig struct {
	APIKey          string   `mapstructure:"apiKey" json:"apiKey,omitempty"`
	TemplateID      string   `mapstructure:"templateId" json:"templateId"`
	Personalisation []string `mapstructure:"personalisation" json:"personalisation,omitempty"`
	EmailField      string   `mapstructure:"emailField" json:"emailField"`
}

// EmailConfig configures a submission email to a fixed address.
type EmailConfig struct {
	EmailAddress string `mapstructure:"emailAddress" json:"emailAddress"`
}

// WebhookConfig configures a submission POST to a URL.
type WebhookConfig struct {
	URL string `mapstructure:"url" json:"url"`
}

// Output is a decoded output definition. Config holds one of NotifyConfig,
// EmailConfig or WebhookConfig.
type Output struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Config any    `json:"config"`
}

// DecodeOutput validates the type of an output and decodes its configuration.
// Unknown configuration keys are rejected.
func DecodeOutput(def domain.OutputDef) (Output, error) {
	out := Output{Name: def.Name, Type: def.Type}
	switch def.Type {
	case domain.OutputConfirmationEmail:
		out.Config = &NotifyConfig{}
	case domain.OutputEmail:
		out.Config = &EmailConfig{}
	case domain.OutputWebhook:
		out.Config = &WebhookConfig{}
	default:
		return out, fmt.Errorf("unknown output type %q", def.Type)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out.Config,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(def.OutputConfiguration); err != nil {
		return out, fmt.Errorf("outputConfiguration: %w", err)
	}
	return out, nil
}
