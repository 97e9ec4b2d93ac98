package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationState is the current step of the guided booking dialogue
type ConversationState string

const (
	StateInicio       ConversationState = "inicio"
	StateServicio     ConversationState = "servicio"
	StateFecha        ConversationState = "fecha"
	StateNombre       ConversationState = "datos_nombre"
	StateTipoDoc      ConversationState = "datos_tipo_doc"
	StateNumDoc       ConversationState = "datos_num_doc"
	StateNacimiento   ConversationState = "datos_nacimiento"
	StateSexo         ConversationState = "datos_sexo"
	StateTelefono     ConversationState = "datos_telefono"
	StateEPS          ConversationState = "datos_eps"
	StateDireccion    ConversationState = "datos_direccion"
	StateEmail        ConversationState = "datos_email"
	StateConfirmacion ConversationState = "confirmacion"
)

// Collected field names stored in Conversation.Data
const (
	FieldFullName       = "nombreCompleto"
	FieldDocumentType   = "tipoDocumento"
	FieldDocumentNumber = "numeroDocumento"
	FieldBirthDate      = "fechaNacimiento"
	FieldSex            = "sexo"
	FieldPhone          = "telefono"
	FieldEPS            = "eps"
	FieldAddress        = "direccion"
	FieldEmail          = "email"
)

// ConversationData accumulates patient fields collected step by step
type ConversationData map[string]string

// Value returns json value, implement driver.Valuer interface
func (d ConversationData) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan scans a jsonb value, implements sql.Scanner interface
func (d *ConversationData) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]string{}
	err := json.Unmarshal(bytes, &result)
	*d = ConversationData(result)
	return err
}

// Clone returns a copy so a turn never mutates the persisted map in place
func (d ConversationData) Clone() ConversationData {
	out := make(ConversationData, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Conversation is the persisted dialogue progress of one WhatsApp caller.
// A conversation older than 24 hours is treated as stale and replaced.
type Conversation struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PhoneFrom       string            `gorm:"type:varchar(20);not null;index" json:"phone_from"`
	State           ConversationState `gorm:"type:varchar(30);not null;default:'inicio'" json:"state"`
	Service         *Service          `gorm:"type:varchar(30)" json:"service,omitempty"`
	AppointmentDate *time.Time        `gorm:"type:date" json:"appointment_date,omitempty"`
	AppointmentHour *string           `gorm:"type:varchar(5)" json:"appointment_hour,omitempty"`
	Data            ConversationData  `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// IsStale reports whether more than 24 hours passed since the last update
func (c *Conversation) IsStale(now time.Time) bool {
	return now.Sub(c.UpdatedAt) > 24*time.Hour
}
