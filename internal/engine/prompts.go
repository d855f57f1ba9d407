package engine

import (
	"fmt"
	"strings"

	"github.com/micheltwotravel/bot-ventas/internal/catalog"
	"github.com/micheltwotravel/bot-ventas/internal/owners"
	"github.com/micheltwotravel/bot-ventas/internal/session"
)

// Selection IDs shared with the transport layer. Button and list row IDs
// travel over the wire verbatim, so these are part of the channel contract.
const (
	selLangEN = "LANG_EN"
	selLangES = "LANG_ES"

	selEmailEnter = "EMAIL_ENTER"
	selEmailUseWA = "EMAIL_USE_WA"
	selEmailSkip  = "EMAIL_SKIP"

	selCityCartagena = "CITY_CARTAGENA"
	selCityMedellin  = "CITY_MEDELLIN"
	selCityTulum     = "CITY_TULUM"
	selCityMexico    = "CITY_MXCITY"

	selSvcVillas    = "SVC_VILLAS"
	selSvcBoats     = "SVC_BOATS"
	selSvcIslands   = "SVC_ISLANDS"
	selSvcWeddings  = "SVC_WEDDINGS"
	selSvcConcierge = "SVC_CONCIERGE"
	selSvcTeam      = "SVC_TEAM"

	selPostAdd  = "POST_ADD_SERVICE"
	selPostTalk = "POST_TALK_TEAM"
	selPostMenu = "POST_MENU"
)

var cityBySelection = map[string]string{
	selCityCartagena: "cartagena",
	selCityMedellin:  "medellin",
	selCityTulum:     "tulum",
	selCityMexico:    "mexico city",
}

var serviceBySelection = map[string]string{
	selSvcVillas:    "villas",
	selSvcBoats:     "boats",
	selSvcIslands:   "islands",
	selSvcWeddings:  "weddings",
	selSvcConcierge: "concierge",
	selSvcTeam:      "team",
}

var villaTagBySelection = map[string]string{
	"VILLA_3_6":   "bed_3_6",
	"VILLA_7_10":  "bed_7_10",
	"VILLA_11_14": "bed_11_14",
	"VILLA_15P":   "bed_15_plus",
}

var boatTagBySelection = map[string]string{
	"BOAT_SPEED": "type_speedboat",
	"BOAT_YACHT": "type_yacht",
	"BOAT_CAT":   "type_catamaran",
}

// servicesByCity limits the menu to what each destination actually offers.
var servicesByCity = map[string][]string{
	"cartagena":   {selSvcVillas, selSvcBoats, selSvcIslands, selSvcWeddings, selSvcConcierge, selSvcTeam},
	"medellin":    {selSvcVillas, selSvcWeddings, selSvcConcierge, selSvcTeam},
	"tulum":       {selSvcVillas, selSvcBoats, selSvcWeddings, selSvcConcierge, selSvcTeam},
	"mexico city": {selSvcVillas, selSvcWeddings, selSvcConcierge, selSvcTeam},
}

func pick(es bool, spanish, english string) string {
	if es {
		return spanish
	}
	return english
}

func welcomeIntent(botName string) Intent {
	return SendButtons{
		Body: fmt.Sprintf("Hi! I'm %s from Two Travel 🌴\n¡Hola! Soy %s de Two Travel 🌴\n\nChoose your language / Elige tu idioma:", botName, botName),
		Buttons: []Button{
			{ID: selLangEN, Title: "English"},
			{ID: selLangES, Title: "Español"},
		},
	}
}

func askNameIntent(es bool, botName string) Intent {
	return SendText{Body: pick(es,
		fmt.Sprintf("¡Perfecto! Soy %s, tu asistente de Two Travel ✨\n¿Cómo te llamas?", botName),
		fmt.Sprintf("Perfect! I'm %s, your Two Travel assistant ✨\nWhat's your name?", botName),
	)}
}

func emailChoiceIntent(es bool, name string) Intent {
	return SendButtons{
		Body: pick(es,
			fmt.Sprintf("Un gusto, %s 🙌 ¿A qué correo te enviamos las opciones?", name),
			fmt.Sprintf("Nice to meet you, %s 🙌 Which email should we send the options to?", name),
		),
		Buttons: []Button{
			{ID: selEmailEnter, Title: pick(es, "Escribir correo", "Type my email")},
			{ID: selEmailUseWA, Title: pick(es, "Usar WhatsApp", "Use my WhatsApp")},
			{ID: selEmailSkip, Title: pick(es, "Omitir", "Skip")},
		},
	}
}

func askEmailIntent(es bool) Intent {
	return SendText{Body: pick(es,
		"Escríbeme tu correo (ej: ana@ejemplo.com) 📧",
		"Type your email (e.g. ana@example.com) 📧",
	)}
}

func cityListIntent(es bool) Intent {
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿En qué destino estás interesado? 🌎", "Which destination are you interested in? 🌎"),
		ButtonLabel: pick(es, "Ver destinos", "See destinations"),
		Rows: []ListRow{
			{ID: selCityCartagena, Title: "Cartagena", Description: pick(es, "Colombia · Caribe", "Colombia · Caribbean")},
			{ID: selCityMedellin, Title: "Medellín", Description: "Colombia"},
			{ID: selCityTulum, Title: "Tulum", Description: pick(es, "México · Riviera Maya", "Mexico · Riviera Maya")},
			{ID: selCityMexico, Title: pick(es, "Ciudad de México", "Mexico City"), Description: pick(es, "México", "Mexico")},
		},
	}
}

func serviceRow(es bool, id string) ListRow {
	switch id {
	case selSvcVillas:
		return ListRow{ID: id, Title: pick(es, "Villas y casas", "Villas & homes"), Description: pick(es, "Alquiler de lujo", "Luxury rentals")}
	case selSvcBoats:
		return ListRow{ID: id, Title: pick(es, "Botes y yates", "Boats & yachts"), Description: pick(es, "Día de mar", "Day at sea")}
	case selSvcIslands:
		return ListRow{ID: id, Title: pick(es, "Islas privadas", "Private islands"), Description: pick(es, "Escapadas exclusivas", "Exclusive getaways")}
	case selSvcWeddings:
		return ListRow{ID: id, Title: pick(es, "Bodas y eventos", "Weddings & events"), Description: pick(es, "Planeación completa", "Full planning")}
	case selSvcConcierge:
		return ListRow{ID: id, Title: "Concierge", Description: pick(es, "Experiencias a medida", "Tailored experiences")}
	default:
		return ListRow{ID: selSvcTeam, Title: pick(es, "Hablar con el equipo", "Talk to the team"), Description: pick(es, "Atención personal", "Personal assistance")}
	}
}

func menuListIntent(es bool, city string) Intent {
	ids, ok := servicesByCity[city]
	if !ok {
		ids = servicesByCity["cartagena"]
	}
	rows := make([]ListRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, serviceRow(es, id))
	}
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿Qué servicio te interesa? ✨", "Which service are you interested in? ✨"),
		ButtonLabel: pick(es, "Ver servicios", "See services"),
		Rows:        rows,
	}
}

func villaPaxListIntent(es bool) Intent {
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿Cuántas personas viajan? 🧳", "How many people are traveling? 🧳"),
		ButtonLabel: pick(es, "Elegir", "Choose"),
		Rows: []ListRow{
			{ID: "PAX_5", Title: pick(es, "Hasta 5", "Up to 5")},
			{ID: "PAX_10", Title: "6 – 10"},
			{ID: "PAX_20", Title: "11 – 20"},
			{ID: "PAX_21", Title: "21+"},
		},
	}
}

func villaCategoryListIntent(es bool) Intent {
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿Qué tamaño de villa buscas? 🏡", "What size of villa are you looking for? 🏡"),
		ButtonLabel: pick(es, "Elegir", "Choose"),
		Rows: []ListRow{
			{ID: "VILLA_3_6", Title: pick(es, "3 – 6 habitaciones", "3 – 6 bedrooms")},
			{ID: "VILLA_7_10", Title: pick(es, "7 – 10 habitaciones", "7 – 10 bedrooms")},
			{ID: "VILLA_11_14", Title: pick(es, "11 – 14 habitaciones", "11 – 14 bedrooms")},
			{ID: "VILLA_15P", Title: pick(es, "15+ habitaciones", "15+ bedrooms")},
		},
	}
}

func boatCategoryListIntent(es bool) Intent {
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿Qué tipo de bote prefieres? 🛥️", "What type of boat do you prefer? 🛥️"),
		ButtonLabel: pick(es, "Elegir", "Choose"),
		Rows: []ListRow{
			{ID: "BOAT_SPEED", Title: pick(es, "Lancha rápida", "Speedboat")},
			{ID: "BOAT_YACHT", Title: pick(es, "Yate", "Yacht")},
			{ID: "BOAT_CAT", Title: pick(es, "Catamarán", "Catamaran")},
		},
	}
}

func boatPaxListIntent(es bool) Intent {
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿Para cuántas personas? ⚓", "For how many people? ⚓"),
		ButtonLabel: pick(es, "Elegir", "Choose"),
		Rows: []ListRow{
			{ID: "PAX_5", Title: pick(es, "Hasta 5", "Up to 5")},
			{ID: "PAX_10", Title: "6 – 10"},
			{ID: "PAX_20", Title: "11 – 20"},
			{ID: "PAX_21", Title: "21+"},
		},
	}
}

func weddingGuestsListIntent(es bool) Intent {
	return SendList{
		Header:      "Two Travel",
		Body:        pick(es, "¿Cuántos invitados aproximadamente? 💍", "Roughly how many guests? 💍"),
		ButtonLabel: pick(es, "Elegir", "Choose"),
		Rows: []ListRow{
			{ID: "WED_PAX_50", Title: pick(es, "Hasta 50", "Up to 50")},
			{ID: "WED_PAX_100", Title: "51 – 100"},
			{ID: "WED_PAX_200", Title: "101 – 200"},
			{ID: "WED_PAX_201", Title: "200+"},
			{ID: "WED_PAX_UNK", Title: pick(es, "Aún no sé", "Not sure yet")},
		},
	}
}

func askDateIntent(es bool) Intent {
	return SendText{Body: pick(es,
		"¿Para qué fecha lo necesitas? 📅\nPuedes escribir 2026-03-15, 15/03/2026 o \"marzo 2026\". Si aún no sabes, escribe \"omitir\".",
		"What date do you need it for? 📅\nYou can type 2026-03-15, 15/03/2026 or \"march 2026\". If you don't know yet, type \"skip\".",
	)}
}

func pastDateIntent(es bool) Intent {
	return SendText{Body: pick(es,
		"Esa fecha ya pasó 😅 Intenta con una fecha futura.",
		"That date is in the past 😅 Try a future date.",
	)}
}

// priceUnit is what a PriceFrom figure is quoted per, by service.
func priceUnit(es bool, service string) string {
	switch service {
	case "boats":
		return pick(es, "día", "day")
	case "weddings":
		return pick(es, "evento", "event")
	default:
		return pick(es, "noche", "night")
	}
}

func resultsIntent(es bool, service, city string, entries []catalog.Entry) Intent {
	var b strings.Builder
	b.WriteString(pick(es,
		fmt.Sprintf("Estas son mis mejores opciones en %s ✨\n", titleWord(city)),
		fmt.Sprintf("Here are my top picks in %s ✨\n", titleWord(city)),
	))
	unit := priceUnit(es, service)
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("\n%d. *%s*", i+1, e.Name))
		if e.PriceFrom > 0 && e.PriceFrom < 999999 {
			b.WriteString(fmt.Sprintf("\n   %s $%.0f USD / %s", pick(es, "Desde", "From"), e.PriceFrom, unit))
		}
		if e.Description != "" {
			b.WriteString("\n   " + e.Description)
		}
		if e.URL != "" {
			b.WriteString("\n   " + e.URL)
		}
		b.WriteString("\n")
	}
	return SendText{Body: strings.TrimRight(b.String(), "\n")}
}

func handoffIntent(es bool, owner owners.Owner) Intent {
	var b strings.Builder
	b.WriteString(pick(es,
		fmt.Sprintf("Te conecto con *%s* (Two Travel) 🤝\n", owner.Name),
		fmt.Sprintf("I'm connecting you with *%s* (Two Travel) 🤝\n", owner.Name),
	))
	if owner.WhatsApp != "" {
		b.WriteString(fmt.Sprintf("📲 %s: https://wa.me/%s\n",
			pick(es, "Escríbele aquí", "Message here"), waDigits(owner.WhatsApp)))
	}
	if owner.SchedulingLink != "" {
		b.WriteString(fmt.Sprintf("📆 %s: %s\n",
			pick(es, "O agenda una llamada", "Or schedule a call"), owner.SchedulingLink))
	}
	b.WriteString(pick(es,
		"Ya tiene el resumen de tu solicitud, te responderá muy pronto.",
		"They already have your request summary and will get back to you shortly.",
	))
	return SendText{Body: b.String()}
}

func noResultsIntent(es bool) Intent {
	return SendText{Body: pick(es,
		"No encontré opciones publicadas para esa combinación 😔 Pero nuestro equipo seguro tiene algo para ti:",
		"I couldn't find published options for that combination 😔 But our team surely has something for you:",
	)}
}

func postResultsIntent(es bool, withTalk bool) Intent {
	buttons := []Button{
		{ID: selPostAdd, Title: pick(es, "Otro servicio", "Another service")},
	}
	if withTalk {
		buttons = append(buttons, Button{ID: selPostTalk, Title: pick(es, "Hablar con equipo", "Talk to the team")})
	}
	buttons = append(buttons, Button{ID: selPostMenu, Title: pick(es, "Ver menú", "See menu")})
	return SendButtons{
		Body: pick(es,
			"¿Qué más necesitas? 😊",
			"What else do you need? 😊",
		),
		Buttons: buttons,
	}
}

func waDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleWord(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// serviceDealTitle names a deal opened straight from the service menu.
func serviceDealTitle(s *session.Session) string {
	return fmt.Sprintf("[%s] %s via WhatsApp", titleWord(orDash(s.Request.City)), titleWord(orDash(s.Request.ServiceType)))
}

// topShownBlock lists the candidates the contact already saw, so the deal
// carries what sales is picking the conversation up from.
func topShownBlock(cands []session.Candidate) string {
	if len(cands) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Top shown:\n")
	for _, c := range cands {
		line := "- " + c.Name
		if c.URL != "" {
			line += " (" + c.URL + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// dealDescription is the summary block attached to CRM deals and reused by
// the sales email. History lines show every service asked about in order.
func dealDescription(s *session.Session, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "City: %s\n", orDash(s.Request.City))
	fmt.Fprintf(&b, "Service: %s\n", orDash(s.Request.ServiceType))
	fmt.Fprintf(&b, "Pax: %s\n", paxOrDash(s.Request.PartySize))
	fmt.Fprintf(&b, "Date: %s\n", orDash(s.Request.Date))
	fmt.Fprintf(&b, "Email: %s\n", orDash(s.Contact.Email))
	fmt.Fprintf(&b, "Lang: %s\n", string(s.Language))
	b.WriteString("Source: WhatsApp Bot\n")
	if extra != "" {
		b.WriteString(extra)
	}
	if len(s.History) > 0 {
		b.WriteString("History:\n")
		for _, h := range s.History {
			line := fmt.Sprintf("- %s @ %s", h.Service, orDash(h.City))
			if h.PartySize > 0 {
				line += fmt.Sprintf(", pax %d", h.PartySize)
			}
			if h.Date != "" {
				line += ", " + h.Date
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func paxOrDash(n int) string {
	if n <= 0 {
		return "—"
	}
	return fmt.Sprintf("%d", n)
}
