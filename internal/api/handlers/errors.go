package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
	"github.com/Cheertaboi/coupon-dashboard/internal/repository"
	"github.com/Cheertaboi/coupon-dashboard/internal/service"
)

func mapErrorToStatus(err error) int {
	var fe *repository.FetchError
	var ve validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrInvalidDate), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, service.ErrExportInProgress), errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, repository.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &fe), errors.Is(err, service.ErrExportFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorMessage is the text shown to the user; upstream details stay in
// the logs.
func errorMessage(err error) string {
	var fe *repository.FetchError
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		return models.ErrInvalidDate.Error()
	case errors.Is(err, service.ErrNothingToExport):
		return "Nenhum dado para exportar"
	case errors.Is(err, service.ErrExportInProgress):
		return "Exportação já em andamento"
	case errors.Is(err, repository.ErrExportUnavailable):
		return repository.ErrExportUnavailable.Error()
	case errors.Is(err, service.ErrExportFailed):
		return "Erro ao exportar os dados"
	case errors.As(err, &fe):
		return fe.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "tempo esgotado ao consultar a API"
	case mapErrorToStatus(err) == http.StatusInternalServerError:
		return "erro interno"
	}
	return err.Error()
}
