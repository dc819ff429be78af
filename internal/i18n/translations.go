// ABOUTME: Read-only translation tables for the en and es locales
// ABOUTME: UI labels, quick-query presets, fallback/error text, and loading phrases

package i18n

import "strings"

// Locale is a supported locale tag
type Locale string

const (
	English Locale = "en"
	Spanish Locale = "es"
)

// Default is used when detection fails or a tag is unsupported
const Default = English

// QuickQuery is a preset question shown as a shortcut
type QuickQuery struct {
	Label       string
	Description string
	Query       string
}

// Strings is the translation table for one locale
type Strings struct {
	Title          string
	Subtitle       string
	ChatTitle      string
	ChatSubtitle   string
	Welcome        string
	WelcomeText    string
	Placeholder    string
	AskButton      string
	Searching      string
	ErrorTitle     string
	ErrorText      string
	FallbackText   string
	Cleared        string
	Sources        string
	QuickQueries   []QuickQuery
	LoadingPhrases []string
}

var tables = map[Locale]Strings{
	English: {
		Title:        "SazónBot",
		Subtitle:     "García Family Recipes",
		ChatTitle:    "Recipe Chat",
		ChatSubtitle: "Ask me about any Mexican recipe",
		Welcome:      "Welcome!",
		WelcomeText:  "Pick a recipe with /quick or type your own question below.",
		Placeholder:  "Ask about any recipe...",
		AskButton:    "Ask",
		Searching:    "Searching...",
		ErrorTitle:   "Error",
		ErrorText:    "Failed to connect to recipe service.",
		FallbackText: "Sorry, I couldn't search for recipes right now.",
		Cleared:      "Conversation cleared.",
		Sources:      "Sources",
		QuickQueries: []QuickQuery{
			{Label: "Pozole Blanco", Description: "Traditional hominy soup", Query: "How do I make pozole?"},
			{Label: "Fajitas a la Vizcaína", Description: "Signature dish", Query: "Show me the Fajitas a la Vizcaína recipe"},
			{Label: "Tortitas de Atún", Description: "Tuna patties", Query: "Show me the Tortitas de Atún recipe"},
		},
		LoadingPhrases: []string{
			"Searching the family recipe book...",
			"Asking abuela...",
			"Chopping the onions...",
			"Simmering the answer...",
			"Almost ready to serve...",
		},
	},
	Spanish: {
		Title:        "SazónBot",
		Subtitle:     "Recetas de la Familia García",
		ChatTitle:    "Chat de Recetas",
		ChatSubtitle: "Pregúntame sobre cualquier receta mexicana",
		Welcome:      "¡Bienvenidos!",
		WelcomeText:  "Elige una receta con /quick o escribe tu propia pregunta abajo.",
		Placeholder:  "Pregunta sobre cualquier receta...",
		AskButton:    "Preguntar",
		Searching:    "Buscando...",
		ErrorTitle:   "Error",
		ErrorText:    "No se pudo conectar con el servicio de recetas.",
		FallbackText: "Lo siento, no pude buscar recetas en este momento.",
		Cleared:      "Conversación borrada.",
		Sources:      "Fuentes",
		QuickQueries: []QuickQuery{
			{Label: "Pozole Blanco", Description: "Sopa tradicional de maíz pozolero", Query: "¿Cómo hago pozole?"},
			{Label: "Fajitas a la Vizcaína", Description: "Platillo especial", Query: "Muéstrame la receta de Fajitas a la Vizcaína"},
			{Label: "Tortitas de Atún", Description: "Tortitas de atún", Query: "Muéstrame la receta de Tortitas de Atún"},
		},
		LoadingPhrases: []string{
			"Buscando en el recetario de la familia...",
			"Preguntándole a la abuela...",
			"Picando la cebolla...",
			"Cocinando la respuesta a fuego lento...",
			"Ya casi está listo...",
		},
	},
}

// Lookup returns the table for locale, falling back to Default.
func Lookup(locale Locale) Strings {
	if t, ok := tables[locale]; ok {
		return t
	}
	return tables[Default]
}

// LoadingPhrases returns the ordered loading phrases for locale.
func LoadingPhrases(locale Locale) []string {
	return Lookup(locale).LoadingPhrases
}

// Locales returns the supported locales
func Locales() []Locale {
	return []Locale{English, Spanish}
}

// Parse maps a tag such as "es", "es-MX" or "es_MX.UTF-8" to a supported
// locale. ok is false when the tag names no supported language.
func Parse(tag string) (Locale, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case strings.HasPrefix(tag, "es"):
		return Spanish, true
	case strings.HasPrefix(tag, "en"):
		return English, true
	default:
		return Default, false
	}
}
