package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	Service string               `json:"service" validate:"required,oneof=mamografia densitometria"`
	Date    string               `json:"date" validate:"required,datetime=2006-01-02"`
	Hour    string               `json:"hour" validate:"required,datetime=15:04"`
	Patient CreatePatientRequest `json:"patient" validate:"required"`
}

type CreatePatientRequest struct {
	FullName       string `json:"full_name" validate:"required,min=3,max=150"`
	DocumentType   string `json:"document_type" validate:"required,oneof=CC CE PP TI"`
	DocumentNumber string `json:"document_number" validate:"required,min=6,max=20"`
	BirthDate      string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Sex            string `json:"sex" validate:"required,oneof=F M"`
	Phone          string `json:"phone" validate:"required,min=10,max=20"`
	EPS            string `json:"eps" validate:"required,max=100"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	Email          string `json:"email" validate:"required,email"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID        `json:"id"`
	Service   string           `json:"service"`
	Date      string           `json:"date"`
	Hour      string           `json:"hour"`
	Status    string           `json:"status"`
	Channel   string           `json:"channel"`
	Patient   *PatientResponse `json:"patient,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type PatientResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	Phone          string    `json:"phone"`
	EPS            string    `json:"eps"`
	Email          string    `json:"email,omitempty"`
}
