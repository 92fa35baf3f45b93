package telegram

import (
	"fmt"
	"sort"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
)

// Callback data prefixes. The multi-step /on and /off flows carry their
// collected answers inside the callback payload, so a chat can abandon a
// dialog at any step without leaking state.
const (
	cbLanguage     = "lang:"
	cbOnVariant    = "on_variant:"     // on_variant:<0|1>
	cbOnCampus     = "on_campus:"      // on_campus:<0|1>:<campus>
	cbOnTime       = "on_time:"        // on_time:<0|1>:<campus>:<HH:MM>
	cbOnTimeCustom = "on_time_custom:" // on_time_custom:<0|1>:<campus>
	cbOffVariant   = "off_variant:"    // off_variant:<0|1>
	cbOffCampus    = "off_campus:"     // off_campus:<0|1>:<campus>
)

func flagToken(dayBefore bool) string {
	if dayBefore {
		return "1"
	}
	return "0"
}

// languageKeyboard lists every available locale.
func languageKeyboard(locales []string) tgbotapi.InlineKeyboardMarkup {
	names := map[string]string{"en": "English", "ru": "Русский"}
	var row []tgbotapi.InlineKeyboardButton
	for _, code := range locales {
		label, ok := names[code]
		if !ok {
			label = code
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbLanguage+code))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// variantKeyboard asks day-of vs day-before with localized labels.
func variantKeyboard(prefix, dayOfLabel, dayBeforeLabel string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(dayOfLabel, prefix+"0"),
			tgbotapi.NewInlineKeyboardButtonData(dayBeforeLabel, prefix+"1"),
		),
	)
}

// campusKeyboard lists all four campuses, two per row.
func campusKeyboard(dayBefore bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for campus := 1; campus <= domain.CampusCount; campus++ {
		data := cbOnCampus + flagToken(dayBefore) + ":" + strconv.Itoa(campus)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(campus), data))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// activeCampusKeyboard lists only the campuses that currently have a
// reminder of the given variant, for the /off flow.
func activeCampusKeyboard(active map[int]bool, dayBefore bool) tgbotapi.InlineKeyboardMarkup {
	campuses := make([]int, 0, len(active))
	for campus := range active {
		campuses = append(campuses, campus)
	}
	sort.Ints(campuses)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, campus := range campuses {
		data := cbOffCampus + flagToken(dayBefore) + ":" + strconv.Itoa(campus)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(campus), data))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// timeKeyboard offers common reminder times plus a custom entry.
func timeKeyboard(dayBefore bool, campus int, customLabel string) tgbotapi.InlineKeyboardMarkup {
	presets := []string{"08:00", "10:00", "12:00", "15:00", "18:00", "21:00"}
	prefix := fmt.Sprintf("%s%s:%d:", cbOnTime, flagToken(dayBefore), campus)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, preset := range presets {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(preset, prefix+preset))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			customLabel,
			fmt.Sprintf("%s%s:%d", cbOnTimeCustom, flagToken(dayBefore), campus),
		),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
