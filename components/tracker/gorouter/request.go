package gorouter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"

	router "github.com/goliatone/go-router"
)

// Request is the slice of router.Context the handlers rely on.
type Request interface {
	Context() context.Context
	Param(name string) string
	Header(name string) string
	Body() []byte
	SetHeader(key, value string)
	Status(code int)
	Send(body []byte) error
	JSON(code int, v any) error
}

type routerRequest struct {
	ctx router.Context
}

func (r routerRequest) Context() context.Context { return r.ctx.Context() }
func (r routerRequest) Param(name string) string { return r.ctx.Param(name) }
func (r routerRequest) Header(name string) string { return r.ctx.Header(name) }
func (r routerRequest) Body() []byte { return r.ctx.Body() }
func (r routerRequest) SetHeader(key, value string) { r.ctx.SetHeader(key, value) }
func (r routerRequest) Status(code int) { r.ctx.Status(code) }
func (r routerRequest) Send(body []byte) error { return r.ctx.Send(body) }
func (r routerRequest) JSON(code int, v any) error { return r.ctx.JSON(code, v) }

// trackedRequest carries the request-scoped context and remembers the status.
type trackedRequest struct {
	Request
	ctx    context.Context
	status int
}

func (r *trackedRequest) Context() context.Context { return r.ctx }

func (r *trackedRequest) Status(code int) {
	r.status = code
	r.Request.Status(code)
}

func (r *trackedRequest) JSON(code int, v any) error {
	r.status = code
	return r.Request.JSON(code, v)
}

func (r *trackedRequest) statusCode() int {
	if r.status == 0 {
		return 200
	}
	return r.status
}

var errUnsupportedForm = errors.New("unsupported form encoding")

type uploadedFile struct {
	name    string
	content []byte
}

type formData struct {
	values url.Values
	file   *uploadedFile
}

// parseForm decodes an urlencoded or multipart body. Only the "file" part of
// a multipart body is read.
func parseForm(req Request, maxBytes int64) (formData, error) {
	body := req.Body()
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return formData{}, fmt.Errorf("upload is larger than %d bytes", maxBytes)
	}
	mediaType, params, err := mime.ParseMediaType(req.Header("Content-Type"))
	if err != nil {
		return formData{}, fmt.Errorf("%w: %v", errUnsupportedForm, err)
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return formData{}, fmt.Errorf("parse form: %w", err)
		}
		return formData{values: values}, nil
	case "multipart/form-data":
		return parseMultipart(body, params["boundary"], maxBytes)
	default:
		return formData{}, fmt.Errorf("%w: %s", errUnsupportedForm, mediaType)
	}
}

func parseMultipart(body []byte, boundary string, maxBytes int64) (formData, error) {
	if boundary == "" {
		return formData{}, fmt.Errorf("%w: missing multipart boundary", errUnsupportedForm)
	}
	memory := maxBytes
	if memory <= 0 {
		memory = 32 << 20
	}
	form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(memory)
	if err != nil {
		return formData{}, fmt.Errorf("parse multipart form: %w", err)
	}
	defer form.RemoveAll()

	data := formData{values: url.Values(form.Value)}
	headers := form.File["file"]
	if len(headers) == 0 || headers[0].Filename == "" {
		return data, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return formData{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return formData{}, fmt.Errorf("read upload: %w", err)
	}
	data.file = &uploadedFile{name: headers[0].Filename, content: content}
	return data, nil
}
