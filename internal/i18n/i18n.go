package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once

	fallbackMu     sync.RWMutex
	fallbackLocale = DefaultLocale
)

// SetFallbackLocale sets the locale GetLocale returns when the request does
// not name a supported one. Unsupported locales are ignored.
func SetFallbackLocale(locale string) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if _, ok := getDefaultMessages()[locale]; !ok {
		return
	}
	fallbackMu.Lock()
	fallbackLocale = locale
	fallbackMu.Unlock()
}

func currentFallback() string {
	fallbackMu.RLock()
	defer fallbackMu.RUnlock()
	return fallbackLocale
}

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to the fallback locale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return currentFallback()
	}

	// Parse Accept-Language header (e.g., "en-US,en;q=0.9,pt;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "en" from "en-US")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		// Normalize to lowercase
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return currentFallback()
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":              "Invalid request",
			"error.invalid_request_body":         "Invalid request body",
			"error.internal_error":               "An unexpected error occurred",
			"error.api_key_required":             "API key is required",
			"error.invalid_api_key":              "Invalid API key",
			"error.rate_limit_exceeded":          "Too many requests, please try again later",
			"error.invalid_token":                "Invalid or expired token",
			"error.token_required":               "Authentication token is required",
			"error.timeout":                      "Request timed out",
			"error.service_unavailable":          "Service temporarily unavailable",
			"error.request_in_progress":          "The same request is still being processed",
			"error.import.file_required":         "Please choose a file to upload",
			"error.import.file_too_large":        "The file is too large",
			"error.import.unsupported_file":      "Only .xlsx and .csv files are supported",
			"error.import.empty_sheet":           "File appears empty or has no data rows",
			"error.import.header_not_found":      "No recognised header row in the file",
			"error.import.no_records":            "No valid rows in the file",
			"error.import.unknown_kind":          "Unknown sheet type",
			"error.parcel.not_found":             "Parcel not found",
			"error.parcel.invalid_transition":    "This parcel cannot change to the requested status",
			"error.parcel.expiry_in_past":        "Expiry date is in the past",
			"error.parcel.invalid_expiry":        "Expiry must be N/A or a date",
			"error.parcel.number_required":       "Parcel number is required",
			"error.selection.already_dispatched": "This parcel has already been dispatched.",
			"error.selection.not_received":       "This parcel has not been received yet.",
			"error.cart.not_found":               "Dispatch cart not found",
			"error.cart.empty":                   "The dispatch cart is empty",
			"error.cart.project_required":        "Project code is required",
		},
		"fr": {
			"error.invalid_request":              "Requête invalide",
			"error.invalid_request_body":         "Corps de requête invalide",
			"error.internal_error":               "Une erreur inattendue s'est produite",
			"error.api_key_required":             "Une clé d'API est requise",
			"error.invalid_api_key":              "Clé d'API invalide",
			"error.rate_limit_exceeded":          "Trop de requêtes, veuillez réessayer plus tard",
			"error.invalid_token":                "Jeton invalide ou expiré",
			"error.token_required":               "Un jeton d'authentification est requis",
			"error.timeout":                      "Délai de la requête dépassé",
			"error.service_unavailable":          "Service temporairement indisponible",
			"error.request_in_progress":          "La même requête est encore en cours",
			"error.import.file_required":         "Veuillez choisir un fichier",
			"error.import.file_too_large":        "Le fichier est trop volumineux",
			"error.import.unsupported_file":      "Seuls les fichiers .xlsx et .csv sont acceptés",
			"error.import.empty_sheet":           "Le fichier semble vide ou sans lignes de données",
			"error.import.header_not_found":      "Aucune ligne d'en-tête reconnue dans le fichier",
			"error.import.no_records":            "Aucune ligne valide dans le fichier",
			"error.import.unknown_kind":          "Type de feuille inconnu",
			"error.parcel.not_found":             "Colis introuvable",
			"error.parcel.invalid_transition":    "Ce colis ne peut pas passer au statut demandé",
			"error.parcel.expiry_in_past":        "La date d'expiration est dépassée",
			"error.parcel.invalid_expiry":        "La date d'expiration doit être N/A ou une date",
			"error.parcel.number_required":       "Le numéro de colis est requis",
			"error.selection.already_dispatched": "Ce colis a déjà été expédié.",
			"error.selection.not_received":       "Ce colis n'a pas encore été réceptionné.",
			"error.cart.not_found":               "Panier d'expédition introuvable",
			"error.cart.empty":                   "Le panier d'expédition est vide",
			"error.cart.project_required":        "Le code projet est requis",
		},
		"es": {
			"error.invalid_request":              "Solicitud inválida",
			"error.invalid_request_body":         "Cuerpo de la solicitud inválido",
			"error.internal_error":               "Se produjo un error inesperado",
			"error.api_key_required":             "Se requiere una clave de API",
			"error.invalid_api_key":              "Clave de API inválida",
			"error.rate_limit_exceeded":          "Demasiadas solicitudes, inténtelo más tarde",
			"error.invalid_token":                "Token inválido o caducado",
			"error.token_required":               "Se requiere un token de autenticación",
			"error.timeout":                      "La solicitud ha caducado",
			"error.service_unavailable":          "Servicio no disponible temporalmente",
			"error.request_in_progress":          "La misma solicitud aún se está procesando",
			"error.import.file_required":         "Seleccione un archivo",
			"error.import.file_too_large":        "El archivo es demasiado grande",
			"error.import.unsupported_file":      "Solo se admiten archivos .xlsx y .csv",
			"error.import.empty_sheet":           "El archivo parece vacío o sin filas de datos",
			"error.import.header_not_found":      "No se reconoce ninguna fila de encabezado",
			"error.import.no_records":            "No hay filas válidas en el archivo",
			"error.import.unknown_kind":          "Tipo de hoja desconocido",
			"error.parcel.not_found":             "Bulto no encontrado",
			"error.parcel.invalid_transition":    "Este bulto no puede pasar al estado solicitado",
			"error.parcel.expiry_in_past":        "La fecha de caducidad ya pasó",
			"error.parcel.invalid_expiry":        "La caducidad debe ser N/A o una fecha",
			"error.parcel.number_required":       "El número de bulto es obligatorio",
			"error.selection.already_dispatched": "Este bulto ya ha sido despachado.",
			"error.selection.not_received":       "Este bulto aún no ha sido recibido.",
			"error.cart.not_found":               "Carrito de despacho no encontrado",
			"error.cart.empty":                   "El carrito de despacho está vacío",
			"error.cart.project_required":        "El código de proyecto es obligatorio",
		},
	}
}
