package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/applicationmaker/tenant-service/internal/domain"
	"github.com/applicationmaker/tenant-service/internal/tenant"
)

// CreateTenantInput takes the raw body so that malformed JSON, missing
// fields and wrong types are all reported as 400 by decodeCreateTenant.
type CreateTenantInput struct {
	RawBody []byte
}

type CreateTenantOutput struct {
	Location string `header:"Location"`
	Body     tenant.View
}

type GetTenantInput struct {
	ID string `path:"id" doc:"Tenant identifier"`
}

type GetTenantOutput struct {
	Body tenant.View
}

type ListTenantsInput struct{}

type ListTenantsOutput struct {
	Body []tenant.View
}

type createTenantBody struct {
	Name   *string `json:"name"`
	Domain *string `json:"domain"`
}

func RegisterTenantRoutes(api huma.API, svc TenantService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List all tenants",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *ListTenantsInput) (*ListTenantsOutput, error) {
		views, err := svc.ListTenants(ctx)
		if err != nil {
			return nil, toHTTPError("list-tenants", err)
		}

		return &ListTenantsOutput{Body: views}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenants/{id}",
		Summary:     "Get a tenant by id",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		id, err := parseTenantID(input.ID)
		if err != nil {
			return nil, toHTTPError("get-tenant", err)
		}

		view, err := svc.GetTenant(ctx, id)
		if err != nil {
			return nil, toHTTPError("get-tenant", err)
		}

		return &GetTenantOutput{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-tenant",
		Method:        http.MethodPost,
		Path:          "/tenants",
		Summary:       "Create a new tenant",
		Tags:          []string{"Tenants"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateTenantInput) (*CreateTenantOutput, error) {
		params, err := decodeCreateTenant(input.RawBody)
		if err != nil {
			return nil, toHTTPError("create-tenant", err)
		}

		view, err := svc.CreateTenant(ctx, params)
		if err != nil {
			return nil, toHTTPError("create-tenant", err)
		}

		return &CreateTenantOutput{
			Location: "tenants/" + strconv.FormatInt(view.ID, 10),
			Body:     view,
		}, nil
	})
}

// parseTenantID rejects ids that are not 64-bit integers. Zero and negative
// ids are valid lookups that simply match no tenant.
func parseTenantID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}

// decodeCreateTenant parses and validates a create request body.
func decodeCreateTenant(raw []byte) (tenant.CreateParams, error) {
	var body createTenantBody

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&body); err != nil {
		return tenant.CreateParams{}, &domain.ValidationError{Reason: "request body must be a JSON object with a string name"}
	}
	if dec.More() {
		return tenant.CreateParams{}, &domain.ValidationError{Reason: "request body must contain a single JSON object"}
	}

	if body.Name == nil {
		return tenant.CreateParams{}, &domain.ValidationError{Field: "name", Reason: "is required"}
	}

	if err := domain.ValidateTenantName(*body.Name); err != nil {
		return tenant.CreateParams{}, err
	}

	return tenant.CreateParams{Name: *body.Name, Domain: body.Domain}, nil
}
