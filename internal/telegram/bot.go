package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mealbook/internal/client"
	"mealbook/internal/config"
	"mealbook/internal/grocery"
	"mealbook/internal/planner"
	"mealbook/internal/store"
)

// Bot wraps the Telegram API and the client-side stores.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.Config
	apiCli  client.Client
	session *store.Session
	recipes *store.Recipes
	follows *store.Follow

	planStore    *planner.Store
	groceryStore *grocery.Store

	// mu serializes message processing: the session, recipe and follow
	// stores are not safe for concurrent use.
	mu sync.Mutex
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(
	cfg *config.Config,
	apiCli client.Client,
	session *store.Session,
	recipes *store.Recipes,
	follows *store.Follow,
	planStore *planner.Store,
	groceryStore *grocery.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		cfg:          cfg,
		apiCli:       apiCli,
		session:      session,
		recipes:      recipes,
		follows:      follows,
		planStore:    planStore,
		groceryStore: groceryStore,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

// processMessage handles one command. Overlapping webhook deliveries
// queue on the mutex and run one at a time.
func (b *Bot) processMessage(msg *tgbotapi.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := strings.TrimSpace(msg.Text)
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	switch {
	case text == "/start" || text == "/help":
		b.reply(msg.Chat.ID, helpText)
	case text == "/plan":
		b.handlePlan(msg.Chat.ID)
	case text == "/next":
		b.handleNavigate(msg.Chat.ID, 1)
	case text == "/prev":
		b.handleNavigate(msg.Chat.ID, -1)
	case text == "/grocery":
		b.handleGrocery(msg.Chat.ID)
	case text == "/recipes":
		b.handleRecipes(ctx, msg.Chat.ID)
	case text == "/users":
		b.handleUsers(ctx, msg.Chat.ID)
	case strings.HasPrefix(text, "/follow"):
		b.handleFollowToggle(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/assign"):
		b.handleAssign(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/remove"):
		b.handleRemove(msg.Chat.ID, text)
	case strings.HasPrefix(text, "/swap"):
		b.handleSwap(msg.Chat.ID, text)
	case strings.HasPrefix(text, "/buy"):
		b.handleBuy(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/add"):
		b.handleAddItem(msg.Chat.ID, text)
	case strings.HasPrefix(text, "/check"):
		b.handleCheckItem(msg.Chat.ID, text)
	case text == "/clearbought":
		b.handleClearBought(msg.Chat.ID)
	case text == "/metrics":
		b.handleMetricsRequest(ctx, msg)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleClipRequest(ctx, msg.Chat.ID, text)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

const helpText = `🍽 *Mealbook*

/plan — show this week's meal plan
/next, /prev — switch week
/assign <date> <breakfast|lunch|dinner> <recipe id> — fill a slot
/remove <date> <slot> — clear a slot
/swap <date> <slot> <date> <slot> — exchange two slots
/grocery — show the grocery list
/buy <recipe id> — add a recipe's ingredients to the list
/add <name> — add a manual grocery item
/check <item id> — tick or untick an item
/clearbought — drop everything ticked off
/recipes — list known recipes
/users — list other accounts
/follow <user id> — follow or unfollow an account
Send a recipe URL to clip it.`

func (b *Bot) handlePlan(chatID int64) {
	b.reply(chatID, formatWeek(b.planStore))
}

func (b *Bot) handleNavigate(chatID int64, direction int) {
	if err := b.planStore.Navigate(direction); err != nil {
		b.replyError(chatID, "Error switching week", err)
		return
	}
	b.reply(chatID, formatWeek(b.planStore))
}

func (b *Bot) handleGrocery(chatID int64) {
	groups := b.groceryStore.Grouped()
	if len(groups) == 0 {
		b.reply(chatID, "🛒 The grocery list is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "\n*%s*\n", g.Category)
		for _, item := range g.Items {
			mark := "◻️"
			if item.Completed {
				mark = "✅"
			}
			fmt.Fprintf(&sb, "%s %s", mark, item.Name)
			if item.Amount != "" {
				fmt.Fprintf(&sb, " (%s %s)", item.Amount, item.Unit)
			}
			fmt.Fprintf(&sb, "\n  `%s`\n", item.ID)
		}
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleRecipes(ctx context.Context, chatID int64) {
	if err := b.recipes.FetchAll(ctx); err != nil {
		b.replyError(chatID, "Error fetching recipes", err)
		return
	}

	if len(b.recipes.Items) == 0 {
		b.reply(chatID, "No recipes yet. Send a URL to clip one!")
		return
	}

	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	for _, rec := range b.recipes.Items {
		fmt.Fprintf(&sb, "• %s (%s, %d mins)\n  `%s`\n", rec.Title, rec.Category, rec.PrepTime, rec.ID)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleUsers(ctx context.Context, chatID int64) {
	if err := b.session.FetchUsers(ctx); err != nil {
		b.replyError(chatID, "Error fetching users", err)
		return
	}

	if len(b.session.Users) == 0 {
		b.reply(chatID, "No other accounts yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 *Users*\n\n")
	for _, u := range b.session.Users {
		mark := ""
		if b.follows.IsFollowing(u.ID) {
			mark = " ⭐"
		}
		fmt.Fprintf(&sb, "• %s%s\n  `%s`\n", u.Name, mark, u.ID)
	}
	b.reply(chatID, sb.String())
}

// handleFollowToggle follows or unfollows: /follow <user id>
func (b *Bot) handleFollowToggle(ctx context.Context, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		b.reply(chatID, "Usage: /follow <user id>")
		return
	}

	targetID := parts[1]
	wasFollowing := b.follows.IsFollowing(targetID)
	if err := b.follows.ToggleFollow(ctx, targetID, wasFollowing); err != nil {
		b.replyError(chatID, "Error updating follow state", err)
		return
	}

	if wasFollowing {
		b.reply(chatID, "Unfollowed.")
	} else {
		b.reply(chatID, "Following! ⭐")
	}
}

// handleAssign fills one slot: /assign 2026-08-31 dinner <recipe id>
func (b *Bot) handleAssign(ctx context.Context, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 4 {
		b.reply(chatID, "Usage: /assign <yyyy-mm-dd> <breakfast|lunch|dinner> <recipe id>")
		return
	}

	date, slot, recipeID := parts[1], planner.Slot(parts[2]), parts[3]
	if !validSlot(slot) {
		b.reply(chatID, "The slot must be breakfast, lunch or dinner.")
		return
	}

	if err := b.planStore.Assign(ctx, b.recipes, date, slot, recipeID); err != nil {
		b.replyError(chatID, "Error assigning recipe", err)
		return
	}
	b.reply(chatID, formatWeek(b.planStore))
}

func (b *Bot) handleRemove(chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		b.reply(chatID, "Usage: /remove <yyyy-mm-dd> <breakfast|lunch|dinner>")
		return
	}

	slot := planner.Slot(parts[2])
	if !validSlot(slot) {
		b.reply(chatID, "The slot must be breakfast, lunch or dinner.")
		return
	}

	if err := b.planStore.Remove(parts[1], slot); err != nil {
		b.replyError(chatID, "Error clearing slot", err)
		return
	}
	b.reply(chatID, formatWeek(b.planStore))
}

// handleSwap exchanges two slots: /swap 2026-08-31 dinner 2026-09-02 lunch
func (b *Bot) handleSwap(chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 5 {
		b.reply(chatID, "Usage: /swap <yyyy-mm-dd> <slot> <yyyy-mm-dd> <slot>")
		return
	}

	srcSlot, dstSlot := planner.Slot(parts[2]), planner.Slot(parts[4])
	if !validSlot(srcSlot) || !validSlot(dstSlot) {
		b.reply(chatID, "The slots must be breakfast, lunch or dinner.")
		return
	}

	if err := b.planStore.Swap(parts[1], srcSlot, parts[3], dstSlot); err != nil {
		b.replyError(chatID, "Error swapping slots", err)
		return
	}
	b.reply(chatID, formatWeek(b.planStore))
}

func validSlot(s planner.Slot) bool {
	return s == planner.SlotBreakfast || s == planner.SlotLunch || s == planner.SlotDinner
}

// handleBuy imports a recipe's ingredients into the grocery list.
func (b *Bot) handleBuy(ctx context.Context, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		b.reply(chatID, "Usage: /buy <recipe id>")
		return
	}

	rec, err := b.recipes.RecipeByID(ctx, parts[1])
	if err != nil {
		b.replyError(chatID, "Error fetching recipe", err)
		return
	}

	if err := b.groceryStore.ImportFromRecipe(rec.Title, rec.Ingredients); err != nil {
		b.replyError(chatID, "Error updating grocery list", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Added the ingredients of *%s* to the grocery list.", rec.Title))
}

func (b *Bot) handleAddItem(chatID int64, text string) {
	name := strings.TrimSpace(strings.TrimPrefix(text, "/add"))
	if name == "" {
		b.reply(chatID, "Usage: /add <item name>")
		return
	}

	if err := b.groceryStore.AddManualItem(name, "", "", grocery.Categorize(name)); err != nil {
		b.replyError(chatID, "Error adding item", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🛒 Added *%s* to the grocery list.", name))
}

func (b *Bot) handleCheckItem(chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		b.reply(chatID, "Usage: /check <item id>")
		return
	}

	if err := b.groceryStore.ToggleCompleted(parts[1]); err != nil {
		b.replyError(chatID, "Error updating item", err)
		return
	}
	b.handleGrocery(chatID)
}

func (b *Bot) handleClearBought(chatID int64) {
	if err := b.groceryStore.ClearCompleted(); err != nil {
		b.replyError(chatID, "Error clearing items", err)
		return
	}
	b.handleGrocery(chatID)
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	m, err := b.apiCli.AdminMetrics(ctx, b.session.Token)
	if err != nil {
		b.replyError(msg.Chat.ID, "Error fetching metrics", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent API Activity*\n")
	if len(m.Usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range m.Usage {
		fmt.Fprintf(&sb, "• *%s*: %d requests (%d errors)\n", d.Date, d.Requests, d.Errors)
	}
	fmt.Fprintf(&sb, "\n📖 Recipes stored: %d\n", m.RecipeCount)

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", m.Health.AllocMB, m.Health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", m.Health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", m.Health.DataDiskSize)

	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleClipRequest(ctx context.Context, chatID int64, url string) {
	statusMsg := tgbotapi.NewMessage(chatID, "✂️ *Clipping recipe...*")
	statusMsg.ParseMode = "Markdown"
	sent, err := b.api.Send(statusMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	rec, err := b.apiCli.ClipRecipe(ctx, b.session.Token, url)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*ID:* `%s`", rec.Title, rec.ID)
	}

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) replyError(chatID int64, prefix string, err error) {
	log.Printf("%s: %v", prefix, err)
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.reply(chatID, fmt.Sprintf("❌ *%s:*\n```\n%s\n```", prefix, safeErr))
}
