package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"travel-assistant/internal/agent"
	"travel-assistant/internal/analytics"
	"travel-assistant/internal/auth"
	"travel-assistant/internal/storage"
)

const (
	resetCmd   = "reset_ctx"
	approveCmd = "approve:"
	denyCmd    = "deny:"
)

// Bot routes Telegram updates through the travel agent. Unknown users go
// through an admin-approval flow before they can ask anything.
type Bot struct {
	s           sender
	api         *tgbotapi.BotAPI
	authSvc     *auth.Service
	agent       *agent.Agent
	historyDB   *storage.HistoryStore
	adminUserID int64

	mu      sync.Mutex
	pending map[int64]auth.Traveler
}

// New connects to the Telegram API. historyDB may be nil; it only backs the
// admin /stats command.
func New(botToken string, authSvc *auth.Service, ag *agent.Agent, historyDB *storage.HistoryStore, adminUserID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		s:           botAPISender{api: api},
		api:         api,
		authSvc:     authSvc,
		agent:       ag,
		historyDB:   historyDB,
		adminUserID: adminUserID,
		pending:     make(map[int64]auth.Traveler),
	}, nil
}

// Start consumes the update channel until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
				continue
			}
			if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !b.authSvc.IsAllowed(msg.From.ID) {
		b.handleUnauthorized(msg)
		return
	}

	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	answer, err := b.agent.Respond(ctx, msg.Chat.ID, msg.Text)
	if err != nil {
		log.Printf("agent error: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong. Please try again.")
		return
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset context", resetCmd),
		),
	)
	out := tgbotapi.NewMessage(msg.Chat.ID, answer)
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID,
			"Hi! I'm your travel assistant. Ask me about weather, flights, attractions, currency, local time — or just ask for a joke.")
	case "reset":
		b.agent.ResetContext(msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, "Context cleared.")
	case "stats":
		if msg.From.ID != b.adminUserID {
			b.sendMessage(msg.Chat.ID, "This command is admin-only.")
			return
		}
		b.sendMessage(msg.Chat.ID, b.dailyStats())
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command.")
	}
}

// SendDailyReport pushes today's usage report to the admin. The scheduler
// calls this nightly.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.adminUserID == 0 {
		return nil
	}
	b.sendMessage(b.adminUserID, b.dailyStats())
	return nil
}

// dailyStats renders today's usage report from the query history.
func (b *Bot) dailyStats() string {
	if b.historyDB == nil {
		return "Usage stats are not available."
	}
	now := time.Now()
	recs, err := b.historyDB.RecentSince(now.Add(-24 * time.Hour).Unix())
	if err != nil {
		log.Printf("stats query: %v", err)
		return "Usage stats are not available."
	}
	return analytics.AnalyzeDailyQueries(recs, now).Summary()
}

func (b *Bot) handleUnauthorized(msg *tgbotapi.Message) {
	log.Printf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)

	b.mu.Lock()
	_, already := b.pending[msg.From.ID]
	if !already {
		b.pending[msg.From.ID] = auth.Traveler{
			ID:        msg.From.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		}
	}
	b.mu.Unlock()

	b.sendMessage(msg.Chat.ID, "Your access request was sent for approval.")
	if !already {
		b.notifyAdminRequest(msg.From.ID, msg.From.UserName)
	}
}

func (b *Bot) notifyAdminRequest(userID int64, username string) {
	if b.adminUserID == 0 {
		return
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Approve", approveCmd+strconv.FormatInt(userID, 10)),
			tgbotapi.NewInlineKeyboardButtonData("Deny", denyCmd+strconv.FormatInt(userID, 10)),
		),
	)
	text := fmt.Sprintf("User %d (@%s) wants to use the bot.", userID, username)
	out := tgbotapi.NewMessage(b.adminUserID, text)
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to notify admin: %v", err)
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	switch {
	case cb.Data == resetCmd:
		b.agent.ResetContext(cb.Message.Chat.ID)
		b.sendMessage(cb.Message.Chat.ID, "Context cleared.")

	case strings.HasPrefix(cb.Data, approveCmd), strings.HasPrefix(cb.Data, denyCmd):
		if cb.From.ID != b.adminUserID {
			return
		}
		approve := strings.HasPrefix(cb.Data, approveCmd)
		raw := strings.TrimPrefix(strings.TrimPrefix(cb.Data, approveCmd), denyCmd)
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("bad callback payload %q: %v", cb.Data, err)
			return
		}
		b.resolvePending(userID, approve)
	}
}

func (b *Bot) resolvePending(userID int64, approve bool) {
	b.mu.Lock()
	user, ok := b.pending[userID]
	delete(b.pending, userID)
	b.mu.Unlock()
	if !ok {
		user = auth.Traveler{ID: userID}
	}

	if approve {
		if err := b.authSvc.Upsert(user); err != nil {
			log.Printf("failed to persist approval for %d: %v", userID, err)
		}
		b.sendMessage(b.adminUserID, fmt.Sprintf("User %d approved.", userID))
		b.sendMessage(userID, "You're in! Ask me anything about your trip.")
		return
	}
	b.sendMessage(b.adminUserID, fmt.Sprintf("User %d denied.", userID))
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
