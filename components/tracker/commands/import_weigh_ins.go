package commands

import (
	"context"
	"errors"
	"path/filepath"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-fishboard/components/tracker"
)

type importService interface {
	UploadWeighIns(ctx context.Context, input tracker.UploadWeighInsInput) (tracker.AdminResult, error)
}

// ImportWeighInsInput carries a weigh-in CSV. The file is forwarded as is;
// the fish API owns parsing.
type ImportWeighInsInput struct {
	Filename string               `json:"filename"`
	Content  []byte               `json:"-"`
	Password string               `json:"password"`
	Result   *tracker.AdminResult `json:"-"`
}

// ImportWeighInsCommand validates an upload and forwards it to the fish API.
type ImportWeighInsCommand struct {
	service   importService
	validator tracker.FormValidator
	telemetry Telemetry
}

// NewImportWeighInsCommand creates a command instance.
func NewImportWeighInsCommand(service importService, validator tracker.FormValidator, telemetry Telemetry) *ImportWeighInsCommand {
	if validator == nil {
		validator = tracker.NewJSONSchemaValidator()
	}
	return &ImportWeighInsCommand{service: service, validator: validator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ImportWeighInsInput] = (*ImportWeighInsCommand)(nil)

// Execute validates the upload and delegates to the service.
func (c *ImportWeighInsCommand) Execute(ctx context.Context, msg ImportWeighInsInput) error {
	if c.service == nil {
		return errors.New("import weigh-ins command requires service")
	}
	filename := ""
	if msg.Filename != "" {
		filename = filepath.Base(msg.Filename)
	}
	if err := c.validator.Validate(tracker.FormUploadWeighIns, map[string]any{
		"filename": filename,
		"size":     len(msg.Content),
		"password": msg.Password,
	}); err != nil {
		c.telemetry.Record(ctx, "tracker.command.import.invalid", map[string]any{"error": err.Error()})
		return err
	}
	result, err := c.service.UploadWeighIns(ctx, tracker.UploadWeighInsInput{
		Filename: filename,
		Content:  msg.Content,
		Password: msg.Password,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "tracker.command.import", map[string]any{
		"filename": filename,
		"bytes":    len(msg.Content),
	})
	return nil
}
