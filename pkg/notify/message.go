// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/region"
)

const (
	colorGold   = 0xf1c40f
	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorRed    = 0xe74c3c

	maxListedCompanions = 4
	maxListedSkills     = 6
)

// SuggestionMessage is the direct message that offers team to member.
func SuggestionMessage(team models.TeamResult, member models.MemberInfo, suggestion models.MatchSuggestion) *discordgo.MessageSend {
	score := int(math.Round(team.Score))

	fields := []*discordgo.MessageEmbedField{
		{Name: "🏆 Nome da Equipe", Value: team.SuggestedName, Inline: true},
		{Name: "⭐ Compatibilidade", Value: fmt.Sprintf("**%d%%**", score), Inline: true},
		{Name: "👥 Tamanho", Value: fmt.Sprintf("%d membros", team.Size), Inline: true},
	}
	if companions := companionsField(team, member); companions != nil {
		fields = append(fields, companions)
	}
	if skills := listWithOverflow(team.Detail.CommonSkills, maxListedSkills); skills != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🔧 Habilidades em Comum", Value: skills})
	}
	if regions := regionsField(team.Detail.Regions); regions != nil {
		fields = append(fields, regions)
	}
	if len(team.Detail.Modalities) == 1 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "💻 Modalidade", Value: team.Detail.Modalities[0], Inline: true})
	}
	fields = append(fields,
		&discordgo.MessageEmbedField{
			Name: "🎯 Como Funciona",
			Value: "• Esta equipe foi formada automaticamente pelo sistema\n" +
				"• Todos os membros têm alta compatibilidade\n" +
				"• A equipe é confirmada quando todos aceitarem\n" +
				"• Rejeite se não tiver interesse",
		},
		&discordgo.MessageEmbedField{
			Name:   "⏰ Tempo Limite",
			Value:  fmt.Sprintf("Responda até <t:%d:f>", time.UnixMilli(suggestion.ExpiresAt).Unix()),
			Inline: true,
		},
	)

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🚀 Nova Equipe Sugerida!",
			Description: fmt.Sprintf("**%s**, encontramos uma equipe perfeita para você!", member.Name),
			Color:       colorGold,
			Fields:      fields,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Sistema de Matchmaking • Equipe #%d • Score: %d%%", team.ID, score),
			},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Aceitar Equipe",
						Style:    discordgo.SuccessButton,
						Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
						CustomID: customID(ActionAccept, suggestion.ID),
					},
					discordgo.Button{
						Label:    "Rejeitar Equipe",
						Style:    discordgo.DangerButton,
						Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
						CustomID: customID(ActionReject, suggestion.ID),
					},
				},
			},
		},
	}
}

// TeamConfirmedMessage tells a member that everyone accepted.
func TeamConfirmedMessage(teamName string, members []string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎉 Equipe Confirmada!",
			Description: fmt.Sprintf("Todos os membros aceitaram. A equipe **%s** está formada!", teamName),
			Color:       colorGreen,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "👥 Membros", Value: strings.Join(members, "\n")},
			},
		}},
	}
}

func companionsField(team models.TeamResult, member models.MemberInfo) *discordgo.MessageEmbedField {
	var b strings.Builder
	listed := 0
	others := 0
	for _, m := range team.Members {
		if m.DiscordUserID == member.DiscordUserID {
			continue
		}
		others++
		if listed == maxListedCompanions {
			continue
		}
		listed++
		fmt.Fprintf(&b, "`%d.` **%s**\n    📍 %s • 🎓 %s\n", listed, m.Name, m.City, m.Education)
	}
	if others == 0 {
		return nil
	}
	if others > listed {
		fmt.Fprintf(&b, "    ... e mais %d membros", others-listed)
	}
	return &discordgo.MessageEmbedField{Name: "👤 Seus Futuros Companheiros", Value: b.String()}
}

func regionsField(regions []string) *discordgo.MessageEmbedField {
	title := cases.Title(language.BrazilianPortuguese)
	known := make([]string, 0, len(regions))
	for _, r := range regions {
		if region.IsKnown(r) {
			known = append(known, title.String(r))
		}
	}
	switch {
	case len(known) == 0 || len(regions) > 3:
		return nil
	case len(regions) == 1:
		return &discordgo.MessageEmbedField{Name: "🌎 Localização", Value: fmt.Sprintf("✅ Todos da região: **%s**", known[0]), Inline: true}
	default:
		return &discordgo.MessageEmbedField{Name: "🌎 Regiões", Value: strings.Join(known, " • "), Inline: true}
	}
}

func listWithOverflow(values []string, limit int) string {
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s +%d mais", strings.Join(values[:limit], ", "), len(values)-limit)
}

func ephemeral(embed *discordgo.MessageEmbed) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}
}

func errorResponse(err error) *discordgo.InteractionResponse {
	return ephemeral(&discordgo.MessageEmbed{
		Title:       "❌ Erro",
		Description: userMessage(err),
		Color:       colorRed,
	})
}

func acceptedResponse(result acceptOutcome) *discordgo.InteractionResponse {
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 Equipe Aceita!",
		Description: fmt.Sprintf("Parabéns! Você aceitou entrar na equipe **%s**!", result.teamName),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "✅ Status", Value: fmt.Sprintf("%d/%d membros confirmados", result.accepted, result.size), Inline: true},
		},
	}
	if !result.confirmed {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📬 Próximos Passos",
			Value: "• Os outros membros também precisam aceitar\n• Você receberá uma mensagem quando a equipe for confirmada",
		})
	}
	return ephemeral(embed)
}

func rejectedResponse(teamName string) *discordgo.InteractionResponse {
	return ephemeral(&discordgo.MessageEmbed{
		Title:       "👋 Equipe Rejeitada",
		Description: fmt.Sprintf("Você rejeitou a equipe **%s**.", teamName),
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "🔍 Continuar Procurando",
			Value: "Você continua disponível para outras sugestões de equipe!",
		}},
	})
}

func rejectModal(suggestionID uint) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customID(ActionRejectModal, suggestionID),
			Title:    "Rejeitar Equipe Sugerida",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    constants.RejectReasonInputID,
							Label:       "Motivo da rejeição (opcional)",
							Style:       discordgo.TextInputParagraph,
							Placeholder: "Por que você está rejeitando esta equipe?",
							Required:    false,
							MaxLength:   constants.RejectReasonMaxLength,
						},
					},
				},
			},
		},
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrSuggestionNotFound):
		return "Sugestão não encontrada."
	case errors.Is(err, models.ErrSuggestionNotPending):
		return "Você já respondeu a esta sugestão."
	case errors.Is(err, models.ErrSuggestionExpired):
		return "Esta sugestão expirou."
	case errors.Is(err, models.ErrParticipantUnavailable):
		return "Você já não está mais disponível para equipes."
	case errors.Is(err, models.ErrTeamDissolved):
		return "Esta equipe foi desfeita: um dos membros recusou ou não respondeu a tempo."
	default:
		return "Não foi possível processar sua resposta. Tente novamente mais tarde."
	}
}

// memberNames lists the display names of a confirmed team.
func memberNames(team []models.MatchSuggestion) []string {
	names := make([]string, 0, len(team))
	for _, s := range team {
		if s.Participant != nil {
			names = append(names, s.Participant.DisplayName())
		}
	}
	return names
}
