package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/notifier"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendPairings announces the pairings of a new round and returns the message timestamp.
func (s *Notifier) SendPairings(t tournament.Tournament, round int, pairings []swiss.Pairing, dryRun bool) (string, error) {
	msg := s.formatPairings(t, round, pairings)
	_, ts, err := s.sendMessage(msg, dryRun)
	return ts, err
}

// SendStandings posts the current standings of a tournament.
func (s *Notifier) SendStandings(t tournament.Tournament, standings []swiss.Standing, dryRun bool) error {
	msg := s.formatStandings(t, standings)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatStandingsResponse formats the standings for a slash command response.
func (s *Notifier) FormatStandingsResponse(t tournament.Tournament, standings []swiss.Standing) (any, error) {
	return s.formatStandings(t, standings), nil
}

// FormatPairingsResponse formats a pairing preview for a slash command response.
func (s *Notifier) FormatPairingsResponse(t tournament.Tournament, pairings []swiss.Pairing) (any, error) {
	return s.formatPairings(t, 0, pairings), nil
}

// FormatErrorResponse formats a short error for a slash command response.
func (s *Notifier) FormatErrorResponse(text string) (any, error) {
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", ":warning: "+text, false, false), nil, nil),
	), nil
}

// formatPairings lists the games of a round, bye last. A zero round means a preview.
func (s *Notifier) formatPairings(t tournament.Tournament, round int, pairings []swiss.Pairing) slack.Message {
	blocks := make([]slack.Block, 0)

	title := fmt.Sprintf(":chess_pawn: %s: next round pairings", t.Name)
	if round > 0 {
		title = fmt.Sprintf(":chess_pawn: %s: round %d pairings", t.Name, round)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	if len(pairings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players registered yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	var bye *swiss.Player
	board := 0
	for i := range pairings {
		p := pairings[i]
		if p.IsBye() {
			bye = &pairings[i].A
			continue
		}
		board++
		lines = append(lines, fmt.Sprintf("Board %d: *%s* vs *%s*", board, p.A.Name, p.B.Name))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	}
	if bye != nil {
		byeText := fmt.Sprintf("_%s receives a bye this round._", bye.Name)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", byeText, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatStandings renders the ranking, giving tied players the same place.
func (s *Notifier) formatStandings(t tournament.Tournament, standings []swiss.Standing) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf(":trophy: %s standings", t.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players registered yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	place := 0
	for i, st := range standings {
		if i == 0 || st.Score != standings[i-1].Score {
			place = i + 1
		}
		line := fmt.Sprintf("%d. %s: %s pts (%d-%d-%d in %d)",
			place, st.Name, formatScore(st.Score), st.Wins, st.Draws, st.Losses, st.Matches)
		if st.HadBye {
			line += " [bye]"
		}
		lines = append(lines, line)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

func formatScore(score float64) string {
	if score == float64(int(score)) {
		return fmt.Sprintf("%d", int(score))
	}
	return fmt.Sprintf("%.1f", score)
}
