package dto

import (
	"time"

	"meetly/modules/integration/entity"
)

type ConnectURLResponse struct {
	URL string `json:"url"`
}

type IntegrationResponse struct {
	Provider  entity.Provider `json:"provider"`
	Email     string          `json:"email"`
	Connected bool            `json:"connected"`
	CreatedAt time.Time       `json:"created_at"`
}

type CheckIntegrationResponse struct {
	Provider  entity.Provider `json:"provider"`
	Connected bool            `json:"connected"`
}

func ToIntegrationResponse(i *entity.Integration) *IntegrationResponse {
	return &IntegrationResponse{
		Provider:  i.Provider,
		Email:     i.Email,
		Connected: true,
		CreatedAt: i.CreatedAt,
	}
}

func ToIntegrationResponses(integrations []entity.Integration) []IntegrationResponse {
	out := make([]IntegrationResponse, 0, len(integrations))
	for i := range integrations {
		out = append(out, *ToIntegrationResponse(&integrations[i]))
	}
	return out
}
