package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/dominos-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

const saveWarning = "your changes are shown but could not be saved"

var badRequestErrors = []error{
	domain.ErrInvalidWeekKey,
	domain.ErrInvalidDate,
	domain.ErrInvalidDay,
	domain.ErrHabitTitleEmpty,
	domain.ErrHabitTitleTooLong,
	domain.ErrHabitIDEmpty,
	domain.ErrHabitIDDuplicate,
	domain.ErrActivityTooLong,
	domain.ErrInvalidMood,
	domain.ErrInvalidMoodPeriod,
	domain.ErrJournalTooLong,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrInvalidTimezone,
}

func statusFor(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, domain.ErrHabitNotFound), errors.Is(err, domain.ErrUnknownSetting):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSaveFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respond writes payload on success. When only the save failed the client still
// gets the new state, next to a warning, so it can keep showing it.
func respond(c *gin.Context, status int, payload any, err error) {
	switch {
	case err == nil:
		c.JSON(status, payload)
	case errors.Is(err, domain.ErrSaveFailed):
		_ = c.Error(err)
		body := gin.H{"error": domain.ErrSaveFailed.Error(), "warning": saveWarning}
		if payload != nil {
			body["data"] = payload
		}
		c.JSON(http.StatusServiceUnavailable, body)
	default:
		respondError(c, err)
	}
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}
