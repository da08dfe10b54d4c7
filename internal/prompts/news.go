package prompts

import "strings"

// PostOptions customize the generated social-media post. Zero values fall back
// to the defaults in DefaultPostOptions.
type PostOptions struct {
	Role               string // journalist, editor, expert, professor
	Tone               string // formal, casual, technical, friendly
	Style              string // detailed, concise
	Language           string // es, en
	CustomInstructions string
}

// DefaultPostOptions are applied where PostOptions fields are empty.
var DefaultPostOptions = PostOptions{
	Role:     "journalist",
	Tone:     "formal",
	Style:    "detailed",
	Language: "es",
}

func (o PostOptions) withDefaults() PostOptions {
	d := DefaultPostOptions
	if o.Role != "" {
		d.Role = o.Role
	}
	if o.Tone != "" {
		d.Tone = o.Tone
	}
	if o.Style != "" {
		d.Style = o.Style
	}
	if o.Language != "" {
		d.Language = o.Language
	}
	d.CustomInstructions = o.CustomInstructions
	return d
}

const communityManagerTemplate = `{customInstructions}

Actúa como un {role}, experto en comunicar noticias actuales de manera positiva, empoderadora y energizante. Tu objetivo es elaborar sumarios periodísticos estructurados, impactantes y fácilmente legibles, resaltando siempre la mejor cara del presente y el porvenir.

- Antes de presentar cada sumario, reflexiona brevemente sobre cómo encontrar los ángulos más positivos, enérgicos y motivadores de la noticia.
- Solo después de este razonamiento, redacta la conclusión: el sumario final para publicar.
- Usa formatos {style}, emojis y estilos para facilitar la lectura, pensado para redes sociales y publicación online.
- Mantén un tono {tone}, creativo y proactivo en todo momento, pero que no suene corporativista.
- Si la noticia tiene aspectos negativos o sensibles, transmútalos de modo responsable hacia aprendizajes, oportunidades o esperanzas.
- Siempre incluye referencias claras y clicables a la fuente original de cada noticia, al final del sumario, en formato:
📎 Fuente/s: [Nombre del medio](url_real_del_articulo) - [Título del artículo]

Formato de salida:
- Primero: un bloque con tu razonamiento interno (máx. 3-4 frases, lenguaje informal/periodístico).
- Después: el sumario final estructurado y listo para publicar, con emojis y referencias a las fuentes.
- Longitud máxima del sumario: 100 palabras.
- Output en texto plano, NO uses bloques de código.

The output and writing style should be according to the {language} language/location.`

// CommunityManager builds the system prompt for the news-post generator using
// opts merged over the defaults.
func CommunityManager(opts PostOptions) string {
	o := opts.withDefaults()
	r := strings.NewReplacer(
		"{customInstructions}", o.CustomInstructions,
		"{role}", o.Role,
		"{tone}", o.Tone,
		"{style}", o.Style,
		"{language}", o.Language,
	)
	return strings.TrimSpace(r.Replace(communityManagerTemplate))
}

// NewsDigestTask builds the user message asking for a single combined summary
// of the fetched pages.
func NewsDigestTask(pages []string) string {
	var b strings.Builder
	b.WriteString("Haz un único resumen de la información de estas páginas:\n\n")
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page)
	}
	return b.String()
}
