package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/validators"
)

const (
	adminDoctors  = "/admin/doctors"
	adminPatients = "/admin/patients"
	adminStats    = "/admin/stats"
)

func (c *Client) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	err := c.get(ctx, adminDoctors, nil, &out)
	return out, err
}

func (c *Client) GetDoctor(ctx context.Context, id string) (models.Doctor, error) {
	var out models.Doctor
	err := c.get(ctx, adminDoctors+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateDoctor(ctx context.Context, req models.CreateDoctorRequest) (models.Doctor, error) {
	var out models.Doctor
	if err := validators.Struct(req); err != nil {
		return out, err
	}
	err := c.mutate(ctx, http.MethodPost, adminDoctors, req, &out, adminDoctors, adminStats, "/patient/doctors")
	return out, err
}

func (c *Client) UpdateDoctor(ctx context.Context, id string, req models.UpdateDoctorRequest) (models.Doctor, error) {
	var out models.Doctor
	if err := validators.Struct(req); err != nil {
		return out, err
	}
	err := c.mutate(ctx, http.MethodPut, adminDoctors+"/"+url.PathEscape(id), req, &out, adminDoctors, "/patient/doctors")
	return out, err
}

func (c *Client) DeleteDoctor(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, adminDoctors+"/"+url.PathEscape(id), nil, nil, adminDoctors, adminStats, "/patient/doctors")
}

func (c *Client) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	err := c.get(ctx, adminPatients, nil, &out)
	return out, err
}

func (c *Client) GetPatient(ctx context.Context, id string) (models.Patient, error) {
	var out models.Patient
	err := c.get(ctx, adminPatients+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) UpdatePatient(ctx context.Context, id string, req models.UpdatePatientRequest) (models.Patient, error) {
	var out models.Patient
	if err := validators.Struct(req); err != nil {
		return out, err
	}
	err := c.mutate(ctx, http.MethodPut, adminPatients+"/"+url.PathEscape(id), req, &out, adminPatients)
	return out, err
}

func (c *Client) DeletePatient(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, adminPatients+"/"+url.PathEscape(id), nil, nil, adminPatients, adminStats)
}

func (c *Client) Stats(ctx context.Context) (models.AdminStats, error) {
	var out models.AdminStats
	err := c.get(ctx, adminStats, nil, &out)
	return out, err
}
