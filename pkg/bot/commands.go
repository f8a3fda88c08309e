// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/matchmaker"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

const (
	formTeamsCommandName = constants.FormTeamsCommand

	// discord rejects message content above 2000 characters
	maxContentLength = 2000
)

func formTeamsCommand() *discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	dmPermission := false
	return &discordgo.ApplicationCommand{
		Name:                     formTeamsCommandName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Forma equipes automaticamente com os participantes disponíveis",
		DefaultMemberPermissions: &adminOnly,
		DMPermission:             &dmPermission,
	}
}

func (b *Bot) handleFormTeams(scope *envelope.Scope, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Você não tem permissão para usar este comando.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			scope.Log.Errorf("unable to refuse %s: %s", formTeamsCommandName, err)
		}
		return
	}

	// formation plus DMs outlasts the three seconds discord waits for an answer
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		scope.Log.Errorf("unable to acknowledge %s: %s", formTeamsCommandName, err)
		return
	}

	report, err := b.formations.Execute(scope)
	content := FormatReport(report, err)
	if _, err = b.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		scope.Log.Errorf("unable to deliver formation report: %s", err)
	}
}

// FormatReport renders a formation report for an administrator.
func FormatReport(report matchmaker.Report, err error) string {
	switch {
	case errors.Is(err, models.ErrFormationInProgress):
		return "⏳ Já existe uma formação de equipes em andamento. Tente novamente em instantes."
	case err != nil:
		return fmt.Sprintf("❌ Erro ao formar equipes: %s", err)
	}

	result := report.Result
	if result.TeamsFormed == 0 {
		return fmt.Sprintf("ℹ️ Nenhuma equipe foi formada: %s", result.Reason)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Formação concluída** (run `%s`)\n", result.RunID)
	fmt.Fprintf(&b, "Equipes formadas: **%d**\n", result.TeamsFormed)
	fmt.Fprintf(&b, "Participantes agrupados: %d • restantes: %d\n", result.ParticipantsGrouped, result.ParticipantsLeftOver)
	fmt.Fprintf(&b, "Sugestões criadas: %d • mensagens enviadas: %d • falharam: %d\n",
		report.SuggestionsCreated, report.NotificationsSent, report.NotificationsFailed)

	for _, team := range result.Teams {
		line := fmt.Sprintf("\n• **%s** (%.0f%%): %s", team.SuggestedName, team.Score, memberList(team))
		if b.Len()+len(line) > maxContentLength-4 {
			b.WriteString("\n…")
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func memberList(team models.TeamResult) string {
	names := make([]string, len(team.Members))
	for i, m := range team.Members {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
