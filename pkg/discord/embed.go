package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"langmerge/internal/domain/entities"
)

const (
	embedColor       = 0x5865F2
	embedColorWarn   = 0xFEE75C
	maxListedPaths   = 10
	embedFieldFiles  = "Files"
	embedFieldManual = "Manual"
	embedFieldWarn   = "Warnings"
)

// formatPaths lists at most maxListedPaths merged files, then a remainder.
func formatPaths(paths []string) string {
	if len(paths) == 0 {
		return "—"
	}
	var b strings.Builder
	for i, p := range paths {
		if i == maxListedPaths {
			b.WriteString(fmt.Sprintf("… +%d", len(paths)-maxListedPaths))
			break
		}
		b.WriteString(fmt.Sprintf("- `%s`\n", p))
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildRunSummaryEmbed renders a finished run. title and body are already
// localized by the caller.
func BuildRunSummaryEmbed(title, body string, summary entities.RunSummary) *discordgo.MessageEmbed {
	color := embedColor
	if summary.Warnings > 0 {
		color = embedColorWarn
	}
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(formatPaths(summary.Paths))

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: embedFieldFiles, Value: fmt.Sprint(summary.Files), Inline: true},
			{Name: embedFieldManual, Value: fmt.Sprint(summary.Adopted), Inline: true},
			{Name: embedFieldWarn, Value: fmt.Sprint(summary.Warnings), Inline: true},
		},
	}
	if !summary.Date.IsZero() {
		embed.Timestamp = summary.Date.Format("2006-01-02T15:04:05Z07:00")
	}
	return embed
}
