package dialogue

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/celtia/supportbot/core"
	"github.com/celtia/supportbot/logging"
)

// AppointmentDuration is the fixed booking length.
const AppointmentDuration = 60 * time.Minute

// Session data keys accumulated across steps.
const (
	dataRechargeNumber = "recharge_number"
	dataName           = "name"
	dataDateText       = "date_text"
	dataDateISO        = "date_iso"
	dataDateReadable   = "date_readable"
	dataTimeText       = "time_text"
	dataTimeISO        = "time_iso"
	dataTimeReadable   = "time_readable"
	dataPortability    = "portability_details"
)

// Resolver is the slice of the temporal resolver the engine consumes.
type Resolver interface {
	ResolveDate(ctx context.Context, input string) (core.ParsedDate, bool)
	ResolveTime(ctx context.Context, input string) (core.ParsedTime, bool)
}

// Generator serves the debug command's raw prompts.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options wires the engine's collaborators.
type Options struct {
	Sessions  core.SessionStore
	Transport core.ChatTransport
	Resolver  Resolver
	Generator Generator
	Calendar  core.CalendarService
	Content   core.ContentProvider
	Notifier  core.AdminNotifier

	// Timezone anchors local date+time when deriving absolute instants.
	Timezone *time.Location

	// AllowedAmounts is the fixed top-up amount set.
	AllowedAmounts []int

	Logger logging.Logger
}

type handlerFunc func(ctx context.Context, sess *core.Session, text string) error

// Engine turns one inbound message into state transitions and outbound
// replies. It holds no per-conversation state of its own; everything lives
// in the session store. The transport is expected to serialize message
// delivery per conversation id.
type Engine struct {
	sessions  core.SessionStore
	transport core.ChatTransport
	resolver  Resolver
	generator Generator
	calendar  core.CalendarService
	content   core.ContentProvider
	notifier  core.AdminNotifier
	tz        *time.Location
	amounts   []int
	logger    logging.Logger
	handlers  map[core.State]handlerFunc
}

// NewEngine constructs the dialogue engine.
func NewEngine(opts Options) *Engine {
	if opts.Timezone == nil {
		opts.Timezone = time.Local
	}
	if len(opts.AllowedAmounts) == 0 {
		opts.AllowedAmounts = []int{110, 160, 210}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	e := &Engine{
		sessions:  opts.Sessions,
		transport: opts.Transport,
		resolver:  opts.Resolver,
		generator: opts.Generator,
		calendar:  opts.Calendar,
		content:   opts.Content,
		notifier:  opts.Notifier,
		tz:        opts.Timezone,
		amounts:   opts.AllowedAmounts,
		logger:    opts.Logger,
	}
	e.handlers = map[core.State]handlerFunc{
		core.StateIdle:              e.handleIdle,
		core.StateInfo:              e.handleInfo,
		core.StateRechargeNumber:    e.handleRechargeNumber,
		core.StateRechargeAmount:    e.handleRechargeAmount,
		core.StateApptName:          e.handleApptName,
		core.StateApptDateInput:     e.handleApptDate,
		core.StateApptDateConfirm:   e.handleApptDateConfirm,
		core.StateApptTimeInput:     e.handleApptTime,
		core.StateApptTimeConfirm:   e.handleApptTimeConfirm,
		core.StatePortabilityIntake: e.handlePortability,
		core.StateHandoff:           e.handleHandoff,
	}
	return e
}

// HandleMessage processes one inbound message. Errors never escape: parse
// and collaborator failures are contained inside each state handler, anything
// unexpected is logged and answered with a generic apology. Unexpected
// failures deliberately do not reset the session, unlike calendar
// failures which do.
func (e *Engine) HandleMessage(ctx context.Context, conversationID, text string) {
	logger := e.logger
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic handling message", "conversation_id", conversationID, "panic", rec)
			e.reply(ctx, conversationID, genericError)
		}
	}()

	text = strings.TrimSpace(text)

	// Global interrupts, in precedence order, regardless of state.
	if isCancel(text) || isGreeting(text) {
		e.sessions.Reset(conversationID)
		e.reply(ctx, conversationID, welcomeMenu)
		return
	}
	if isPortabilityInterest(text) {
		e.sessions.Set(conversationID, core.StatePortabilityIntake, nil)
		e.reply(ctx, conversationID, portabilityRequirements)
		return
	}
	if prompt, ok := debugCommand(text); ok {
		e.handleDebug(ctx, conversationID, prompt)
		return
	}

	sess := e.sessions.Get(conversationID)
	handler, ok := e.handlers[sess.State]
	if !ok {
		logger.Error("session in unknown state", "conversation_id", conversationID, "state", sess.State)
		e.sessions.Reset(conversationID)
		e.reply(ctx, conversationID, welcomeMenu)
		return
	}
	if err := handler(ctx, sess, text); err != nil {
		logger.Error("message handling failed",
			"conversation_id", conversationID, "state", sess.State, "error", err)
		e.reply(ctx, conversationID, genericError)
	}
}

// handleDebug routes the prompt straight to the generative backend,
// bypassing the state machine and leaving the session untouched.
func (e *Engine) handleDebug(ctx context.Context, conversationID, prompt string) {
	if prompt == "" {
		prompt = "Hola, ¿en qué te ayudo?"
	}
	out, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("debug command failed", "conversation_id", conversationID, "error", err)
		e.reply(ctx, conversationID, modelBusy)
		return
	}
	e.reply(ctx, conversationID, out)
}

func (e *Engine) handleIdle(ctx context.Context, sess *core.Session, text string) error {
	switch text {
	case "1":
		return e.sendCompanyInfo(ctx, sess.ID)
	case "2":
		e.sessions.Set(sess.ID, core.StateRechargeNumber, nil)
		e.reply(ctx, sess.ID, rechargeAskNumber)
	case "3":
		e.sessions.Set(sess.ID, core.StateIdle, nil)
		e.reply(ctx, sess.ID, callCenterInfo)
	case "4":
		e.sessions.Set(sess.ID, core.StateApptName, nil)
		e.reply(ctx, sess.ID, apptAskName)
	case "5":
		e.notifyAdmin(ctx, fmt.Sprintf("👤 *ALERTA HUMANO*\nUn cliente quiere hablar contigo.\n• Cliente: %s", sess.ID))
		e.sessions.Set(sess.ID, core.StateHandoff, nil)
		e.reply(ctx, sess.ID, handoffAck)
	}
	// Anything else while idle is ignored; the greeting interrupt is the
	// documented way to surface the menu.
	return nil
}

// sendCompanyInfo sends the marketing pitch, as an image caption when the
// company image is available and deliverable, as plain text otherwise.
func (e *Engine) sendCompanyInfo(ctx context.Context, conversationID string) error {
	pitch, err := e.content.PitchText(ctx)
	if err != nil || pitch == "" {
		e.logger.Warn("pitch unavailable", "conversation_id", conversationID, "error", err)
		e.reply(ctx, conversationID, modelBusy)
		return nil
	}
	e.sessions.Set(conversationID, core.StateInfo, nil)

	if media, err := e.content.CompanyImage(); err == nil {
		if err := e.transport.SendMedia(ctx, conversationID, media, core.Truncate(pitch, core.MaxMessageLength)); err == nil {
			return nil
		}
		e.logger.Warn("media send failed, falling back to text", "conversation_id", conversationID)
	}
	e.reply(ctx, conversationID, pitch)
	return nil
}

func (e *Engine) handleInfo(ctx context.Context, sess *core.Session, _ string) error {
	e.reply(ctx, sess.ID, infoRedirect)
	return nil
}

func (e *Engine) handleRechargeNumber(ctx context.Context, sess *core.Session, text string) error {
	digits := onlyDigits(text)
	if !isPhone(digits) {
		e.reply(ctx, sess.ID, rechargeBadNumber)
		return nil
	}
	e.sessions.Set(sess.ID, core.StateRechargeAmount, map[string]string{dataRechargeNumber: digits})
	e.reply(ctx, sess.ID, rechargeAskAmount)
	return nil
}

func (e *Engine) handleRechargeAmount(ctx context.Context, sess *core.Session, text string) error {
	amount, ok := e.parseAmount(text)
	if !ok {
		e.reply(ctx, sess.ID, rechargeBadAmount)
		return nil
	}
	number := sess.Data[dataRechargeNumber]
	e.sessions.Set(sess.ID, core.StateIdle, nil)
	e.reply(ctx, sess.ID, fmt.Sprintf(
		"✅ Recarga solicitada: *%s* por *$%d*. Un asesor confirmará tu recarga.", number, amount))
	e.notifyAdmin(ctx, fmt.Sprintf(
		"💳 *ALERTA RECARGA*\n• Cliente: %s\n• Número: %s\n• Monto: $%d", sess.ID, number, amount))
	return nil
}

// parseAmount tolerates a decimal comma and requires membership in the
// fixed allowed set.
func (e *Engine) parseAmount(text string) (int, bool) {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	amount := int(f)
	for _, allowed := range e.amounts {
		if amount == allowed {
			return amount, true
		}
	}
	return 0, false
}

func (e *Engine) handleApptName(ctx context.Context, sess *core.Session, text string) error {
	if text == "" {
		e.reply(ctx, sess.ID, apptAskName)
		return nil
	}
	e.sessions.Set(sess.ID, core.StateApptDateInput, map[string]string{dataName: text})
	e.reply(ctx, sess.ID, apptAskDate)
	return nil
}

func (e *Engine) handleApptDate(ctx context.Context, sess *core.Session, text string) error {
	parsed, ok := e.resolver.ResolveDate(ctx, text)
	if !ok {
		e.reply(ctx, sess.ID, apptBadDate)
		return nil
	}
	readable := parsed.Readable
	if readable == "" {
		readable = parsed.ISODate
	}
	e.sessions.Set(sess.ID, core.StateApptDateConfirm, map[string]string{
		dataDateText:     text,
		dataDateISO:      parsed.ISODate,
		dataDateReadable: readable,
	})
	e.reply(ctx, sess.ID, fmt.Sprintf(
		"Entendí la fecha como: *%s* (%s). ¿Es correcto? *sí/no*", readable, parsed.ISODate))
	return nil
}

func (e *Engine) handleApptDateConfirm(ctx context.Context, sess *core.Session, text string) error {
	switch {
	case isYes(text):
		e.sessions.Set(sess.ID, core.StateApptTimeInput, nil)
		e.reply(ctx, sess.ID, apptAskTime)
	case isNo(text):
		e.sessions.Set(sess.ID, core.StateApptDateInput, nil)
		e.reply(ctx, sess.ID, apptRetryDate)
	default:
		e.reply(ctx, sess.ID, apptYesOrNo)
	}
	return nil
}

func (e *Engine) handleApptTime(ctx context.Context, sess *core.Session, text string) error {
	parsed, ok := e.resolver.ResolveTime(ctx, text)
	if !ok {
		e.reply(ctx, sess.ID, apptBadTime)
		return nil
	}
	readable := parsed.Readable
	if readable == "" {
		readable = parsed.ISOTime
	}
	e.sessions.Set(sess.ID, core.StateApptTimeConfirm, map[string]string{
		dataTimeText:     text,
		dataTimeISO:      parsed.ISOTime,
		dataTimeReadable: readable,
	})
	e.reply(ctx, sess.ID, fmt.Sprintf(
		"Entendí la hora como: *%s* (%s). ¿Es correcto? *sí/no*", readable, parsed.ISOTime))
	return nil
}

func (e *Engine) handleApptTimeConfirm(ctx context.Context, sess *core.Session, text string) error {
	switch {
	case isYes(text):
		return e.bookAppointment(ctx, sess)
	case isNo(text):
		e.sessions.Set(sess.ID, core.StateApptTimeInput, nil)
		e.reply(ctx, sess.ID, apptRetryTime)
		return nil
	default:
		e.reply(ctx, sess.ID, apptYesOrNo)
		return nil
	}
}

// bookAppointment materializes the accumulated draft into a calendar
// event. A busy slot returns the conversation to date entry, discarding
// the chosen time. A calendar failure abandons the booking entirely: the
// user is told, the session is reset, nothing is retried — no remote
// state was committed before the failing call.
func (e *Engine) bookAppointment(ctx context.Context, sess *core.Session) error {
	name := sess.Data[dataName]
	dateISO := sess.Data[dataDateISO]
	timeISO := sess.Data[dataTimeISO]

	start, err := time.ParseInLocation("2006-01-02 15:04", dateISO+" "+timeISO, e.tz)
	if err != nil {
		return fmt.Errorf("corrupt appointment draft %q %q: %w", dateISO, timeISO, err)
	}
	end := start.Add(AppointmentDuration)

	free, err := e.calendar.IsSlotFree(ctx, start.UTC(), end.UTC())
	if err != nil {
		e.logger.Error("slot check failed", "conversation_id", sess.ID, "error", err)
		e.sessions.Reset(sess.ID)
		e.reply(ctx, sess.ID, apptCalendarKO)
		return nil
	}
	if !free {
		e.sessions.Set(sess.ID, core.StateApptDateInput, nil)
		e.reply(ctx, sess.ID, apptSlotBusy)
		return nil
	}

	eventID, err := e.calendar.CreateEvent(ctx,
		"Cita con "+name,
		fmt.Sprintf("Cita agendada vía chat (%s).", sess.ID),
		start.UTC(), end.UTC())
	if err != nil {
		e.logger.Error("event creation failed", "conversation_id", sess.ID, "error", err)
		e.sessions.Reset(sess.ID)
		e.reply(ctx, sess.ID, apptCalendarKO)
		return nil
	}

	e.sessions.Set(sess.ID, core.StateIdle, nil)
	e.reply(ctx, sess.ID, fmt.Sprintf("✅ *Cita creada* para *%s* a las *%s*.", dateISO, timeISO))
	e.notifyAdmin(ctx, fmt.Sprintf(
		"📅 *ALERTA CITA*\n• Cliente: %s\n• Nombre: %s\n• Fecha: %s\n• Hora: %s\n• Evento ID: %s",
		sess.ID, name, dateISO, timeISO, eventID))
	return nil
}

func (e *Engine) handlePortability(ctx context.Context, sess *core.Session, text string) error {
	e.sessions.Set(sess.ID, core.StateIdle, map[string]string{dataPortability: text})
	e.notifyAdmin(ctx, fmt.Sprintf(
		"📩 *ALERTA PORTABILIDAD*\nUn cliente (%s) quiere *cambio de compañía*.\n\n📄 *Datos enviados:*\n%s",
		sess.ID, text))
	e.reply(ctx, sess.ID, portabilityDone)
	return nil
}

func (e *Engine) handleHandoff(ctx context.Context, sess *core.Session, _ string) error {
	e.reply(ctx, sess.ID, handoffSticky)
	return nil
}

// reply sends text to the conversation, applying the uniform outbound cap.
// Transport failures are logged, never propagated.
func (e *Engine) reply(ctx context.Context, conversationID, text string) {
	if err := e.transport.SendText(ctx, conversationID, core.Truncate(text, core.MaxMessageLength)); err != nil {
		e.logger.Error("send failed", "conversation_id", conversationID, "error", err)
	}
}

// notifyAdmin raises a best-effort operator alert; failure never blocks
// the user-facing reply.
func (e *Engine) notifyAdmin(ctx context.Context, text string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, text); err != nil {
		e.logger.Warn("admin notification failed", "error", err)
	}
}
