package candidate

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/files"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/transport"
	"github.com/go-chi/chi"
)

const maxFormMemory = 10 << 20

type ServiceAPI interface {
	List(ctx context.Context) (*Groups, error)
	Get(ctx context.Context, id string) (*View, error)
	Submit(ctx context.Context, sub Submission) (*Candidate, error)
	Decline(ctx context.Context, id string) (*ActionResult, error)
	Hold(ctx context.Context, id string) (*ActionResult, error)
	MoveToInterview(ctx context.Context, id string) (*ActionResult, error)
	Restore(ctx context.Context, id string) (*ActionResult, error)
	Approve(ctx context.Context, id string) (*ActionResult, error)
	SendInvite(ctx context.Context, id string, req InviteRequest) (*InviteResult, error)
	InterviewLink(ctx context.Context, id string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

// Submit accepts the public application form as multipart/form-data.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid form", internal.ErrCodeValidationFailed).WithCause(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	sub, closeFiles, err := parseSubmission(r.MultipartForm)
	defer closeFiles()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	c, err := h.Service.Submit(r.Context(), sub)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, SubmitResponse{
		ID:      c.ID,
		Message: "Form submitted successfully! We will contact you soon.",
	})
}

func parseSubmission(form *multipart.Form) (Submission, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	values := store.Fields{}
	for k, v := range form.Value {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	var sub Submission
	if err := store.Decode(values, &sub.Application); err != nil {
		return sub, closeAll, internal.NewValidationError("invalid form", internal.ErrCodeValidationFailed).WithCause(err)
	}

	upload := func(field string) (*files.Upload, error) {
		headers := form.File[field]
		if len(headers) == 0 {
			return nil, nil
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		return &files.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}, nil
	}

	var err error
	if sub.CV, err = upload("cv"); err != nil {
		return sub, closeAll, internal.NewValidationError("unreadable cv", internal.ErrCodeValidationFailed).WithCause(err)
	}
	if sub.Photo, err = upload("photo"); err != nil {
		return sub, closeAll, internal.NewValidationError("unreadable photo", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return sub, closeAll, nil
}

func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.Service.Decline)
}

func (h *Handler) Hold(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.Service.Hold)
}

func (h *Handler) MoveToInterview(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.Service.MoveToInterview)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.Service.Restore)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.Service.Approve)
}

func (h *Handler) act(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*ActionResult, error)) {
	res, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) SendInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	res, err := h.Service.SendInvite(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) InterviewLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.Service.InterviewLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, LinkResponse{Link: link})
}
