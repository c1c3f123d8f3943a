package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-fishboard/components/tracker"
)

type addFishService interface {
	AddFish(ctx context.Context, input tracker.AddFishInput) (tracker.AdminResult, error)
}

// AddFishInput is the add-fish form. Result receives the upstream message
// when set.
type AddFishInput struct {
	Name     string               `json:"name"`
	Notes    string               `json:"notes"`
	Password string               `json:"password"`
	Result   *tracker.AdminResult `json:"-"`
}

// AddFishCommand validates the form and forwards it to the fish API.
type AddFishCommand struct {
	service   addFishService
	validator tracker.FormValidator
	telemetry Telemetry
}

// NewAddFishCommand creates a command instance. A nil validator uses the
// jsonschema form validator.
func NewAddFishCommand(service addFishService, validator tracker.FormValidator, telemetry Telemetry) *AddFishCommand {
	if validator == nil {
		validator = tracker.NewJSONSchemaValidator()
	}
	return &AddFishCommand{service: service, validator: validator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddFishInput] = (*AddFishCommand)(nil)

// Execute validates the input and delegates to the service.
func (c *AddFishCommand) Execute(ctx context.Context, msg AddFishInput) error {
	if c.service == nil {
		return errors.New("add fish command requires service")
	}
	input := tracker.AddFishInput{
		Name:     strings.TrimSpace(msg.Name),
		Notes:    strings.TrimSpace(msg.Notes),
		Password: msg.Password,
	}
	if err := c.validator.Validate(tracker.FormAddFish, map[string]any{
		"name":     input.Name,
		"notes":    input.Notes,
		"password": input.Password,
	}); err != nil {
		c.telemetry.Record(ctx, "tracker.command.add_fish.invalid", map[string]any{"error": err.Error()})
		return err
	}
	result, err := c.service.AddFish(ctx, input)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "tracker.command.add_fish", map[string]any{"name": input.Name})
	return nil
}
