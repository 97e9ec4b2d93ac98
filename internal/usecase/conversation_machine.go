package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"
	"schedule-agent/pkg/dates"

	"github.com/sirupsen/logrus"
)

// AvailabilityProvider is the slice of the availability engine the machine
// needs while collecting a date.
type AvailabilityProvider interface {
	ComputeAvailability(ctx context.Context, anchor *time.Time, svc entity.Service) ([]dto.DayAvailability, error)
}

// BookingCommitter persists the patient + appointment pair when the caller
// confirms. It is the only persistent side effect the machine triggers.
type BookingCommitter interface {
	CommitConversationBooking(ctx context.Context, conv *entity.Conversation) error
}

// TurnResult is the outcome of processing one inbound message: the next
// state, the reply to send, and any resolved values the caller must persist
// on the conversation. Nil fields mean "unchanged".
type TurnResult struct {
	NextState entity.ConversationState
	Reply     string
	Service   *entity.Service
	Date      *time.Time
	Hour      *string
	Data      entity.ConversationData
}

// ConversationMachine drives the strictly sequential booking dialogue. Every
// state validates its input and either advances or self-loops with a
// corrective prompt; there is no branch without a reply.
type ConversationMachine struct {
	log          *logrus.Logger
	availability AvailabilityProvider
	booker       BookingCommitter
	now          func() time.Time
}

func NewConversationMachine(
	log *logrus.Logger,
	availability AvailabilityProvider,
	booker BookingCommitter,
) *ConversationMachine {
	return &ConversationMachine{
		log:          log,
		availability: availability,
		booker:       booker,
		now:          time.Now,
	}
}

// Turn processes one inbound message against the conversation's current
// state. Errors surface only from the availability query and the final
// booking commit; every validation failure is a normal reply.
func (m *ConversationMachine) Turn(ctx context.Context, conv *entity.Conversation, message string) (*TurnResult, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	switch conv.State {
	case entity.StateInicio:
		return m.handleInicio(msg), nil
	case entity.StateServicio:
		return m.handleServicio(msg), nil
	case entity.StateFecha:
		return m.handleFecha(ctx, msg, conv)
	case entity.StateNombre:
		return m.handleNombre(msg, conv), nil
	case entity.StateTipoDoc:
		return m.handleTipoDoc(msg, conv), nil
	case entity.StateNumDoc:
		return m.handleNumDoc(msg, conv), nil
	case entity.StateNacimiento:
		return m.handleNacimiento(msg, conv), nil
	case entity.StateSexo:
		return m.handleSexo(msg, conv), nil
	case entity.StateTelefono:
		return m.handleTelefono(msg, conv), nil
	case entity.StateEPS:
		return m.handleEPS(msg, conv), nil
	case entity.StateDireccion:
		return m.handleDireccion(msg, conv), nil
	case entity.StateEmail:
		return m.handleEmail(msg, conv), nil
	case entity.StateConfirmacion:
		return m.handleConfirmacion(ctx, msg, conv)
	default:
		return m.handleInicio(msg), nil
	}
}

func (m *ConversationMachine) handleInicio(msg string) *TurnResult {
	if matchIntent(msg, inicioRules) == intentSchedule {
		return &TurnResult{
			NextState: entity.StateServicio,
			Reply:     "¿Qué examen necesitas agendar?\n\n🩺 *Mamografía*\n🦴 *Densitometría*\n\nResponde con el nombre del examen.",
		}
	}

	return &TurnResult{
		NextState: entity.StateInicio,
		Reply:     "¡Hola! Soy el asistente virtual de *Clínica DIMA* 🏥\n\n¿En qué puedo ayudarte?\n\n1️⃣ Agendar una cita\n2️⃣ Consultar una cita\n3️⃣ Cancelar una cita",
	}
}

func (m *ConversationMachine) handleServicio(msg string) *TurnResult {
	var svc entity.Service
	var icon string

	switch matchIntent(msg, servicioRules) {
	case intentServiceMammography:
		svc, icon = entity.ServiceMammography, "🩺"
	case intentServiceDensitometry:
		svc, icon = entity.ServiceDensitometry, "🦴"
	default:
		return &TurnResult{
			NextState: entity.StateServicio,
			Reply:     "No entendí. Por favor elige:\n\n🩺 *Mamografía*\n🦴 *Densitometría*",
		}
	}

	return &TurnResult{
		NextState: entity.StateFecha,
		Service:   &svc,
		Reply: fmt.Sprintf("Perfecto, *%s* %s\n\n¿Para qué fecha te gustaría agendar?\n\nPuedes decirme:\n• \"Mañana\"\n• \"El viernes\"\n• \"La próxima semana\"\n• O una fecha específica",
			svc.DisplayName(), icon),
	}
}

func (m *ConversationMachine) handleFecha(ctx context.Context, msg string, conv *entity.Conversation) (*TurnResult, error) {
	svc := entity.Service("")
	if conv.Service != nil {
		svc = *conv.Service
	}

	fecha := dates.ParseColloquial(msg, m.now())
	if fecha == nil {
		return m.fechaAlternatives(ctx, svc, "No entendí la fecha. Próximas disponibles:")
	}

	days, err := m.availability.ComputeAvailability(ctx, fecha, svc)
	if err != nil {
		return nil, err
	}

	var dayFound *dto.DayAvailability
	target := dates.FormatISO(*fecha)
	for i := range days {
		if days[i].Date == target {
			dayFound = &days[i]
			break
		}
	}

	if dayFound == nil || len(dayFound.Slots) == 0 {
		// The window is already anchored at the requested date, so the
		// options offered are the days nearest it, not nearest today
		return m.alternativesReply(days, "No hay disponibilidad para esa fecha 😕\n\nPróximas opciones:"), nil
	}

	// No slot-choice step: the earliest free slot of the day is taken
	hora := dayFound.Slots[0]

	return &TurnResult{
		NextState: entity.StateNombre,
		Date:      fecha,
		Hour:      &hora,
		Reply: fmt.Sprintf("✅ *%s* a las *%s*\n\nPara completar tu cita, necesito algunos datos.\n\n¿Cuál es tu *nombre completo*?",
			dayFound.Display, hora),
	}, nil
}

// fechaAlternatives re-prompts with the 3 available days nearest today,
// for messages where no date could be resolved at all.
func (m *ConversationMachine) fechaAlternatives(ctx context.Context, svc entity.Service, header string) (*TurnResult, error) {
	days, err := m.availability.ComputeAvailability(ctx, nil, svc)
	if err != nil {
		return nil, err
	}
	return m.alternativesReply(days, header), nil
}

// alternativesReply lists up to the first 3 days of an availability window.
func (m *ConversationMachine) alternativesReply(days []dto.DayAvailability, header string) *TurnResult {
	if len(days) > 3 {
		days = days[:3]
	}
	lines := make([]string, 0, len(days))
	for _, d := range days {
		lines = append(lines, "📅 "+d.Display)
	}

	return &TurnResult{
		NextState: entity.StateFecha,
		Reply:     fmt.Sprintf("%s\n\n%s\n\n¿Cuál prefieres?", header, strings.Join(lines, "\n")),
	}
}

func (m *ConversationMachine) handleNombre(msg string, conv *entity.Conversation) *TurnResult {
	if len(strings.Fields(msg)) < 2 {
		return &TurnResult{
			NextState: entity.StateNombre,
			Reply:     "Por favor ingresa tu nombre completo (nombre y apellido).",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldFullName] = msg

	return &TurnResult{
		NextState: entity.StateTipoDoc,
		Data:      data,
		Reply: fmt.Sprintf("Gracias, *%s* 👋\n\n¿Cuál es tu tipo de documento?\n\n• CC - Cédula de Ciudadanía\n• CE - Cédula de Extranjería\n• PP - Pasaporte\n• TI - Tarjeta de Identidad",
			msg),
	}
}

func (m *ConversationMachine) handleTipoDoc(msg string, conv *entity.Conversation) *TurnResult {
	var tipo string
	for _, t := range documentTypes {
		if strings.Contains(msg, t) {
			tipo = strings.ToUpper(t)
			break
		}
	}

	if tipo == "" {
		return &TurnResult{
			NextState: entity.StateTipoDoc,
			Reply:     "Por favor elige: CC, CE, PP o TI",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldDocumentType] = tipo

	return &TurnResult{
		NextState: entity.StateNumDoc,
		Data:      data,
		Reply:     fmt.Sprintf("¿Cuál es tu número de *%s*?", tipo),
	}
}

func (m *ConversationMachine) handleNumDoc(msg string, conv *entity.Conversation) *TurnResult {
	numero := stripNonDigits(msg)

	if len(numero) < 6 {
		return &TurnResult{
			NextState: entity.StateNumDoc,
			Reply:     "El número de documento parece muy corto. Por favor verifica.",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldDocumentNumber] = numero

	return &TurnResult{
		NextState: entity.StateNacimiento,
		Data:      data,
		Reply:     "¿Cuál es tu *fecha de nacimiento*?\n\n(Ejemplo: 15 de marzo de 1985)",
	}
}

func (m *ConversationMachine) handleNacimiento(msg string, conv *entity.Conversation) *TurnResult {
	now := m.now()

	birth := dates.ParseColloquial(msg, now)
	// An explicit day/month/year always wins over the colloquial reading
	if numeric := dates.ParseNumeric(msg, now.Location()); numeric != nil {
		birth = numeric
	}

	if birth == nil || birth.After(now) {
		return &TurnResult{
			NextState: entity.StateNacimiento,
			Reply:     "No entendí la fecha. Intenta con formato: día/mes/año (ej: 15/03/1985)",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldBirthDate] = birth.Format(time.RFC3339)

	return &TurnResult{
		NextState: entity.StateSexo,
		Data:      data,
		Reply:     "¿Cuál es tu *sexo biológico*?\n\n• Femenino\n• Masculino",
	}
}

func (m *ConversationMachine) handleSexo(msg string, conv *entity.Conversation) *TurnResult {
	var sexo string
	switch matchIntent(msg, sexoRules) {
	case intentSexFemale:
		sexo = entity.SexFemale
	case intentSexMale:
		sexo = entity.SexMale
	default:
		return &TurnResult{
			NextState: entity.StateSexo,
			Reply:     "Por favor responde: Femenino o Masculino",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldSex] = sexo

	return &TurnResult{
		NextState: entity.StateTelefono,
		Data:      data,
		Reply:     "¿A qué *número de teléfono* podemos contactarte?\n\n(Si es el mismo de WhatsApp, escribe \"este\")",
	}
}

func (m *ConversationMachine) handleTelefono(msg string, conv *entity.Conversation) *TurnResult {
	telefono := stripNonDigits(msg)

	if matchIntent(msg, telefonoRules) == intentSamePhone {
		telefono = conv.PhoneFrom
	}

	if len(telefono) < 10 {
		return &TurnResult{
			NextState: entity.StateTelefono,
			Reply:     "El número parece incompleto. Ingresa los 10 dígitos.",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldPhone] = telefono

	return &TurnResult{
		NextState: entity.StateEPS,
		Data:      data,
		Reply:     "¿Cuál es tu *EPS o aseguradora*?\n\n(Si no tienes, escribe \"Particular\")",
	}
}

func (m *ConversationMachine) handleEPS(msg string, conv *entity.Conversation) *TurnResult {
	data := conv.Data.Clone()
	data[entity.FieldEPS] = msg

	return &TurnResult{
		NextState: entity.StateDireccion,
		Data:      data,
		Reply:     "¿Cuál es tu *dirección de residencia*?",
	}
}

func (m *ConversationMachine) handleDireccion(msg string, conv *entity.Conversation) *TurnResult {
	data := conv.Data.Clone()
	data[entity.FieldAddress] = msg

	return &TurnResult{
		NextState: entity.StateEmail,
		Data:      data,
		Reply:     "Por último, ¿cuál es tu *correo electrónico*?\n\n(Ahí te enviaremos la confirmación)",
	}
}

func (m *ConversationMachine) handleEmail(msg string, conv *entity.Conversation) *TurnResult {
	if !strings.Contains(msg, "@") || !strings.Contains(msg, ".") {
		return &TurnResult{
			NextState: entity.StateEmail,
			Reply:     "Ese email no parece válido. Por favor verifica.",
		}
	}

	data := conv.Data.Clone()
	data[entity.FieldEmail] = msg

	var servicioDisplay, fechaDisplay, hora string
	if conv.Service != nil {
		servicioDisplay = conv.Service.DisplayName()
	}
	if conv.AppointmentDate != nil {
		fechaDisplay = dates.FormatLong(*conv.AppointmentDate)
	}
	if conv.AppointmentHour != nil {
		hora = *conv.AppointmentHour
	}

	return &TurnResult{
		NextState: entity.StateConfirmacion,
		Data:      data,
		Reply: fmt.Sprintf("✅ *Resumen de tu cita:*\n\n📋 Servicio: *%s*\n📅 Fecha: *%s*\n🕐 Hora: *%s*\n\n👤 %s\n🪪 %s %s\n📧 %s\n\n¿Confirmas esta cita? (Sí/No)",
			servicioDisplay, fechaDisplay, hora,
			data[entity.FieldFullName], data[entity.FieldDocumentType], data[entity.FieldDocumentNumber], data[entity.FieldEmail]),
	}
}

func (m *ConversationMachine) handleConfirmacion(ctx context.Context, msg string, conv *entity.Conversation) (*TurnResult, error) {
	switch matchIntent(msg, confirmacionRules) {
	case intentAffirm:
		if err := m.booker.CommitConversationBooking(ctx, conv); err != nil {
			return nil, err
		}

		return &TurnResult{
			NextState: entity.StateInicio,
			Reply: fmt.Sprintf("🎉 *¡Tu cita ha sido confirmada!*\n\nRecibirás un correo de confirmación en %s\n\n📍 *Clínica DIMA*\n⏰ Recuerda llegar 15 minutos antes.\n\n¿Necesitas algo más?",
				conv.Data[entity.FieldEmail]),
		}, nil

	case intentDeny:
		return &TurnResult{
			NextState: entity.StateInicio,
			Reply:     "Entendido, la cita no fue agendada.\n\n¿En qué más puedo ayudarte?",
		}, nil

	default:
		return &TurnResult{
			NextState: entity.StateConfirmacion,
			Reply:     "Por favor responde *Sí* para confirmar o *No* para cancelar.",
		}, nil
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
