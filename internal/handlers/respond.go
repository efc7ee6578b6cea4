package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	apierrors "github.com/todo-tracker/todo-api/internal/errors"
	"github.com/todo-tracker/todo-api/internal/middleware"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/services"
	"github.com/todo-tracker/todo-api/internal/utils"
)

// Field messages shown next to project and task form inputs.
const (
	msgTitleTaken   = "You can't use this title again."
	msgColorTaken   = "You can't use this color again."
	msgSlugTaken    = "Another project already uses the address derived from this title."
	msgTitleNoSlug  = "Title must contain at least one letter or digit."
	msgInvalidValue = "Select a valid choice. %s is not one of the available choices."
	msgInvalidBody  = "Invalid request body"
)

// choice is a select-style field that binds from a form value, a JSON
// string or a JSON number.
type choice string

func (v *choice) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = choice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid choice %s", data)
	}
	*v = choice(n.String())
	return nil
}

func parsePriority(raw *choice, fields map[string][]string) *models.TaskPriority {
	if raw == nil || strings.TrimSpace(string(*raw)) == "" {
		return nil
	}
	priority, ok := models.ParseTaskPriority(string(*raw))
	if !ok {
		fields["priority"] = append(fields["priority"], fmt.Sprintf(msgInvalidValue, *raw))
		return nil
	}
	return &priority
}

func parseStatus(raw *choice, fields map[string][]string) *models.TaskStatus {
	if raw == nil || strings.TrimSpace(string(*raw)) == "" {
		return nil
	}
	status, ok := models.ParseTaskStatus(string(*raw))
	if !ok {
		fields["status"] = append(fields["status"], fmt.Sprintf(msgInvalidValue, *raw))
		return nil
	}
	return &status
}

// respondSuccess redirects form clients and writes body as JSON otherwise.
func respondSuccess(c *gin.Context, redirect string, status int, body interface{}) {
	if utils.IsFormRequest(c) {
		c.Redirect(http.StatusFound, redirect)
		return
	}
	c.JSON(status, body)
}

// respondFieldErrors answers with per-field messages. Form clients always get
// 200 so the form can be shown again.
func respondFieldErrors(c *gin.Context, status int, fields map[string][]string) {
	if utils.IsFormRequest(c) {
		apierrors.FormErrors(c, fields)
		return
	}
	if status == http.StatusConflict {
		apierrors.ConflictWithDetails(c, "Resource already exists", fields)
		return
	}
	apierrors.BadRequestWithDetails(c, "Validation failed", fields)
}

func respondBindError(c *gin.Context, err error) {
	log.Printf("[%s] failed to bind request: %v", middleware.GetRequestID(c), err)
	if utils.IsFormRequest(c) {
		apierrors.FormErrors(c, map[string][]string{"__all__": {msgInvalidBody}})
		return
	}
	apierrors.BadRequest(c, msgInvalidBody)
}

// respondServiceError maps service errors that are not field errors.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondFieldErrors(c, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, services.ErrAnonymous):
		if utils.IsFormRequest(c) {
			apierrors.RedirectToLogin(c)
			return
		}
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, err.Error()))
	default:
		log.Printf("[%s] request failed: %v", middleware.GetRequestID(c), err)
		apierrors.InternalError(c, "")
	}
}

func maxLength(limit int, value string) string {
	return fmt.Sprintf(services.MsgMaxLengthFormat, limit, utf8.RuneCountInString(strings.TrimSpace(value)))
}

// projectFieldErrors turns project rule errors into form fields. The status
// is 409 when only uniqueness rules failed.
func projectFieldErrors(err error, input services.ProjectInput) (map[string][]string, int) {
	fields := map[string][]string{}
	invalid := false

	add := func(rule error, field, message string, conflict bool) {
		if errors.Is(err, rule) {
			fields[field] = append(fields[field], message)
			invalid = invalid || !conflict
		}
	}
	add(services.ErrTitleRequired, "title", services.MsgFieldRequired, false)
	add(services.ErrTitleTooLong, "title", maxLength(constants.MaxTitleLength, input.Title), false)
	add(services.ErrEmptySlug, "title", msgTitleNoSlug, false)
	add(services.ErrColorRequired, "color", services.MsgFieldRequired, false)
	add(services.ErrColorTooLong, "color", maxLength(constants.MaxColorLength, input.Color), false)
	add(services.ErrDuplicateTitle, "title", msgTitleTaken, true)
	add(services.ErrDuplicateColor, "color", msgColorTaken, true)
	add(services.ErrSlugTaken, "title", msgSlugTaken, true)

	if len(fields) == 0 {
		return nil, 0
	}
	if invalid {
		return fields, http.StatusBadRequest
	}
	return fields, http.StatusConflict
}

// taskFieldErrors turns task rule errors into form fields.
func taskFieldErrors(err error, title string) (map[string][]string, int) {
	switch {
	case errors.Is(err, services.ErrTitleRequired), errors.Is(err, services.ErrTitleEmpty):
		return map[string][]string{"title": {services.MsgFieldRequired}}, http.StatusBadRequest
	case errors.Is(err, services.ErrTitleTooLong):
		return map[string][]string{"title": {maxLength(constants.MaxTitleLength, title)}}, http.StatusBadRequest
	case errors.Is(err, services.ErrEmptySlug):
		return map[string][]string{"title": {msgTitleNoSlug}}, http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidPriority):
		return map[string][]string{"priority": {err.Error()}}, http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidStatus):
		return map[string][]string{"status": {err.Error()}}, http.StatusBadRequest
	case errors.Is(err, services.ErrTextRequired):
		return map[string][]string{"text": {services.MsgFieldRequired}}, http.StatusBadRequest
	case errors.Is(err, services.ErrSlugExhausted):
		return map[string][]string{"title": {err.Error()}}, http.StatusConflict
	}
	return nil, 0
}
