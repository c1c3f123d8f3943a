package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-fishboard/components/tracker"
)

type stubService struct {
	added    []tracker.AddFishInput
	uploaded []tracker.UploadWeighInsInput
	result   tracker.AdminResult
	err      error
}

func (s *stubService) AddFish(_ context.Context, input tracker.AddFishInput) (tracker.AdminResult, error) {
	s.added = append(s.added, input)
	return s.result, s.err
}

func (s *stubService) UploadWeighIns(_ context.Context, input tracker.UploadWeighInsInput) (tracker.AdminResult, error) {
	s.uploaded = append(s.uploaded, input)
	return s.result, s.err
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func TestAddFishCommand(t *testing.T) {
	service := &stubService{result: tracker.AdminResult{Message: "Fish added"}}
	telemetry := &stubTelemetry{}
	cmd := NewAddFishCommand(service, nil, telemetry)

	var result tracker.AdminResult
	err := cmd.Execute(context.Background(), AddFishInput{Name: "  Lefty ", Notes: "shy", Password: "pw", Result: &result})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.added) != 1 || service.added[0].Name != "Lefty" {
		t.Fatalf("expected trimmed add call, got %#v", service.added)
	}
	if result.Message != "Fish added" {
		t.Fatalf("expected result message, got %q", result.Message)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "tracker.command.add_fish" {
		t.Fatalf("unexpected telemetry %v", telemetry.events)
	}
}

func TestAddFishCommandRequiresPassword(t *testing.T) {
	service := &stubService{}
	cmd := NewAddFishCommand(service, nil, nil)
	err := cmd.Execute(context.Background(), AddFishInput{Name: "Lefty"})
	var verr *tracker.ValidationError
	if !errors.As(err, &verr) || verr.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if len(service.added) != 0 {
		t.Fatalf("upstream must not be called on invalid input")
	}
}

func TestAddFishCommandRequiresName(t *testing.T) {
	service := &stubService{}
	cmd := NewAddFishCommand(service, nil, nil)
	err := cmd.Execute(context.Background(), AddFishInput{Name: "   ", Password: "pw"})
	var verr *tracker.ValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
}

func TestAddFishCommandPropagatesRemoteError(t *testing.T) {
	service := &stubService{err: &tracker.RemoteError{Status: 401, Detail: "Invalid password"}}
	cmd := NewAddFishCommand(service, nil, nil)
	var result tracker.AdminResult
	err := cmd.Execute(context.Background(), AddFishInput{Name: "Lefty", Password: "bad", Result: &result})
	var remote *tracker.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if result.Message != "" {
		t.Fatalf("result must stay empty on failure")
	}
}

func TestImportWeighInsCommand(t *testing.T) {
	service := &stubService{result: tracker.AdminResult{Message: "CSV uploaded"}}
	cmd := NewImportWeighInsCommand(service, nil, nil)
	var result tracker.AdminResult
	err := cmd.Execute(context.Background(), ImportWeighInsInput{
		Filename: "/tmp/data/weigh_ins.csv",
		Content:  []byte("1,2024-05-01,5"),
		Password: "pw",
		Result:   &result,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(service.uploaded) != 1 || service.uploaded[0].Filename != "weigh_ins.csv" {
		t.Fatalf("expected upload with base filename, got %#v", service.uploaded)
	}
	if result.Message != "CSV uploaded" {
		t.Fatalf("unexpected result %q", result.Message)
	}
}

func TestImportWeighInsCommandRejectsEmptyFile(t *testing.T) {
	service := &stubService{}
	cmd := NewImportWeighInsCommand(service, nil, nil)
	err := cmd.Execute(context.Background(), ImportWeighInsInput{Filename: "empty.csv", Password: "pw"})
	var verr *tracker.ValidationError
	if !errors.As(err, &verr) || verr.Field != "size" {
		t.Fatalf("expected size validation error, got %v", err)
	}
	if len(service.uploaded) != 0 {
		t.Fatalf("upstream must not be called on invalid input")
	}
}

func TestCommandsRequireService(t *testing.T) {
	if err := NewAddFishCommand(nil, nil, nil).Execute(context.Background(), AddFishInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
	if err := NewImportWeighInsCommand(nil, nil, nil).Execute(context.Background(), ImportWeighInsInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
}
