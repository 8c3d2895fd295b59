package task

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/ptr"
)

// Form error messages, keyed by field in domain.FilterForm.Errors.
const (
	msgInvalidChoice = "Select a valid choice."
	msgUnknownChoice = "Select a valid choice. That choice is not one of the available choices."
	msgSearchTooLong = "Ensure this value has at most 255 characters."
	msgInvalidText   = "Enter valid text."
)

// Lookup answers the existence checks the filter form needs.
type Lookup interface {
	TaskTypeExists(ctx context.Context, id int64) (bool, error)
	WorkerExists(ctx context.Context, id int64) (bool, error)
}

// Builder turns raw filter parameters into a TaskQuery.
type Builder struct {
	lookup Lookup
}

// NewBuilder creates a query builder backed by the given lookup.
func NewBuilder(lookup Lookup) *Builder {
	return &Builder{lookup: lookup}
}

// Build validates every filter field independently and returns the query to run,
// the interpreted form, and the effective search text.
//
// If any field is invalid the query carries only the raw search text
// ("search", else the legacy "q"); every other predicate is dropped. Store
// failures during existence checks mark the field invalid and are logged,
// never returned.
func (b *Builder) Build(ctx context.Context, values url.Values) (domain.TaskQuery, domain.FilterForm, string) {
	form := domain.FilterForm{
		Values: make(map[string]string, len(domain.FilterFields)),
		Errors: make(map[string]string),
	}
	for _, field := range domain.FilterFields {
		form.Values[field] = strings.TrimSpace(values.Get(field))
	}

	var q domain.TaskQuery

	if s := form.Values[domain.ParamSearch]; s != "" {
		switch {
		case !domain.IsStorableText(s):
			form.Errors[domain.ParamSearch] = msgInvalidText
		case utf8.RuneCountInString(s) > domain.MaxSearchLength:
			form.Errors[domain.ParamSearch] = msgSearchTooLong
		default:
			q.Search = s
		}
	}

	if s := form.Values[domain.ParamStatus]; s != "" {
		status, err := domain.NewTaskStatus(s)
		if err != nil {
			form.Errors[domain.ParamStatus] = msgInvalidChoice
		} else {
			q.Status = &status
		}
	}

	if s := form.Values[domain.ParamPriority]; s != "" {
		priority, err := domain.NewTaskPriority(s)
		if err != nil {
			form.Errors[domain.ParamPriority] = msgInvalidChoice
		} else {
			q.Priority = &priority
		}
	}

	if s := form.Values[domain.ParamTaskType]; s != "" {
		if id, ok := b.reference(ctx, domain.ParamTaskType, s); ok {
			q.TaskTypeID = ptr.To(id)
		} else {
			form.Errors[domain.ParamTaskType] = msgUnknownChoice
		}
	}

	if s := form.Values[domain.ParamAssignee]; s != "" {
		if id, ok := b.reference(ctx, domain.ParamAssignee, s); ok {
			q.AssigneeID = ptr.To(id)
		} else {
			form.Errors[domain.ParamAssignee] = msgUnknownChoice
		}
	}

	form.Valid = len(form.Errors) == 0
	if !form.Valid {
		search := domain.RawSearch(values)
		return domain.TaskQuery{Search: search}, form, search
	}

	if q.Search == "" {
		// Legacy links only carry "q".
		q.Search = domain.RawSearch(url.Values{domain.ParamLegacySearch: values[domain.ParamLegacySearch]})
	}
	return q, form, q.Search
}

// reference parses an id and checks that the referenced row exists.
func (b *Builder) reference(ctx context.Context, field, raw string) (int64, bool) {
	id, err := domain.ParseID(raw)
	if err != nil || b.lookup == nil {
		return 0, false
	}

	var ok bool
	switch field {
	case domain.ParamTaskType:
		ok, err = b.lookup.TaskTypeExists(ctx, id)
	case domain.ParamAssignee:
		ok, err = b.lookup.WorkerExists(ctx, id)
	}
	if err != nil {
		slog.WarnContext(ctx, "filter lookup failed, ignoring field",
			slog.String("field", field),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return 0, false
	}
	return id, ok
}
