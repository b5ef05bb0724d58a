package dialogue

// User-facing copy. The assistant speaks Mexican Spanish; asterisks render
// as bold in the chat client.

const debugPrefix = "gemini"

const welcomeMenu = "Muchas gracias por ponerte en contacto con *Celtia*.\n" +
	"¿En qué puedo apoyarte hoy?\n\n" +
	"1. Información sobre la compañía\n" +
	"2. Recargas\n" +
	"3. Problemas con servicio\n" +
	"4. Agendar una cita\n" +
	"5. Hablar con una persona\n\n" +
	"_Escribe el número de la opción, o `cancelar` para volver aquí._"

const portabilityRequirements = "🙌 *Excelente, te ayudamos con tu cambio a Celtia.*\n\n" +
	"Para continuar, por favor compárteme:\n" +
	"• *IMEI* del teléfono (marca *#06#* para verlo).\n" +
	"• *Nombre completo* del titular.\n" +
	"• *Correo electrónico* de contacto.\n" +
	"• *NIP de portabilidad*: envía un SMS al *051* con la palabra *NIP* o llama al *051*.\n\n" +
	"Cuando tengas estos datos, envíalos en un solo mensaje o en mensajes separados."

const callCenterInfo = "CALL CENTER\n" +
	"Horarios de Atención\n" +
	"Lunes a Viernes 8:30 am a 8:00 pm\n" +
	"Sábado 9:00 am a 7:00 pm\n" +
	"Domingo 10:00 am a 3:00 pm\n" +
	"Línea: 5589202828\n" +
	"Whats: 5629661624"

const infoRedirect = "Si te interesa, dime *paquetes*, *cobertura*, *internet hogar* " +
	"o *cómo contratar*, y te doy más detalles puntuales."

const (
	rechargeAskNumber = "💳 *Recargas*\nPaso 1/2: Envíame el *número a recargar* (10 dígitos). " +
		"Ejemplo: 7771234567\n_Escribe `cancelar` para volver al menú._"
	rechargeBadNumber = "El número debe tener *10 dígitos*. Inténtalo de nuevo."
	rechargeAskAmount = "Paso 2/2: ¿Qué *monto* quieres recargar? Debe ser *110*, *160* o *210*."
	rechargeBadAmount = "Monto inválido. Debe ser *110*, *160* o *210*."
)

const (
	apptAskName    = "📅 *Agendar una cita*\nPaso 1/4: Indícame tu *nombre completo*."
	apptAskDate    = "Paso 2/4: Escribe la *fecha* (ej.: *próximo jueves*, *17 de agosto*, *17/08/2025*)."
	apptBadDate    = "No pude interpretar la fecha. Intenta con *mañana*, *próximo jueves* o *17/08/2025*."
	apptRetryDate  = "Ok, escribe nuevamente la *fecha*."
	apptAskTime    = "Paso 3/4: Ahora dime la *hora* (ej.: *3 pm*, *15:00*, *medio día*)."
	apptBadTime    = "No pude interpretar la hora. Intenta con *3 pm* o *15:00*."
	apptRetryTime  = "Ok, escribe nuevamente la *hora*."
	apptYesOrNo    = "Responde *sí* o *no*."
	apptSlotBusy   = "⛔ Ese horario ya está ocupado. ¿Propones otra *fecha* u *hora*?"
	apptCalendarKO = "⚠️ No pude verificar/crear la cita en el calendario. Intenta más tarde."
)

const (
	handoffAck      = "👤 *Hablar con una persona*\nEn breve un asesor te atenderá."
	handoffSticky   = "En breve, un asesor continuará la conversación. 🙌"
	portabilityDone = "Perfecto, recibí tu información. Un asesor te contactará. " +
		"Escribe *hola* para el menú."
	modelBusy    = "⚠️ El modelo está ocupado. Intentémoslo más tarde."
	genericError = "⚠️ Ocurrió un error. Escribe *hola* para ver el menú."
)
