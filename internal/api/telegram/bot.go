package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "misbar/internal/application"
	"misbar/internal/container"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

// Ограничение на размер скачиваемого снимка
const maxImageBytes = 20 << 20

var overviewPresets = []entity.Preset{entity.PresetToday, entity.PresetWeek, entity.PresetMonth, entity.PresetYear}

// botAPI часть tgbotapi.BotAPI, которой пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api    botAPI
	c      *container.Container
	client *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("telegram authorized", "account", api.Self.UserName)

	return newBot(api, c), nil
}

func newBot(api botAPI, c *container.Container) *Bot {
	return &Bot{api: api, c: c, client: http.DefaultClient}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.c.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		slog.Error("get user", "user", msg.From.ID, "err", err)
		return
	}
	t := textsFor(b.c.UserService.Locale(user))

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if fileID := imageFileID(msg); fileID != "" {
		if user.State != entity.StateAwaitingTestImage {
			b.sendMessage(msg.Chat.ID, t.sendTest)
			return
		}
		b.handleImage(ctx, msg, user, fileID)
		return
	}

	if user.State == entity.StateAwaitingTestImage {
		b.sendMessage(msg.Chat.ID, t.awaitingImage)
		return
	}
	b.sendMessage(msg.Chat.ID, t.unknownCommand)
}

// imageFileID снимок наибольшего размера или документ-изображение
func imageFileID(msg *tgbotapi.Message) string {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID
	}
	return ""
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	locale := b.c.UserService.Locale(user)
	t := textsFor(locale)
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		if _, err := b.c.UserService.Cancel(ctx, user.ID, chatID); err != nil {
			slog.Error("reset state", "user", user.ID, "err", err)
		}
		b.sendMessage(chatID, t.start)

	case "help":
		b.sendMessage(chatID, t.help)

	case "stats":
		req, bad := parseStatsArgs(args)
		if bad != "" {
			b.sendMessage(chatID, fmt.Sprintf(t.badArgs, bad))
			return
		}
		req.Locale = locale
		m, err := b.c.DashboardService.Metrics(ctx, req)
		if err != nil {
			b.replyError(chatID, t, err)
			return
		}
		b.sendMessage(chatID, formatMetrics(t, statsTitle(req), m, b.c.Location))

	case "overview":
		out, err := b.c.DashboardService.Overview(ctx, overviewPresets, entity.SystemAll, locale)
		if err != nil {
			b.replyError(chatID, t, err)
			return
		}
		parts := make([]string, 0, len(out))
		for _, pm := range out {
			parts = append(parts, formatMetrics(t, string(pm.Preset), pm.Metrics, b.c.Location))
		}
		b.sendMessage(chatID, strings.Join(parts, "\n\n"))

	case "gallery":
		panels, err := b.c.GalleryService.Search(ctx, app.GalleryQuery{Term: strings.Join(args, " ")})
		if err != nil {
			b.replyError(chatID, t, err)
			return
		}
		b.sendMessage(chatID, formatGallery(t, panels, b.c.Location))

	case "panel":
		if len(args) != 1 {
			b.sendMessage(chatID, fmt.Sprintf(t.badArgs, msg.CommandArguments()))
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendMessage(chatID, fmt.Sprintf(t.badArgs, args[0]))
			return
		}
		detail, err := b.c.GalleryService.Panel(ctx, id, locale)
		if errors.Is(err, port.ErrPanelNotFound) {
			b.sendMessage(chatID, fmt.Sprintf(t.panelNotFound, id))
			return
		}
		if err != nil {
			b.replyError(chatID, t, err)
			return
		}
		b.sendMessage(chatID, formatPanel(t, detail, b.c.Location))

	case "alerts":
		b.sendMessage(chatID, formatAlerts(t, b.c.LiveFeed.Alerts(), b.c.Location))

	case "ack":
		if len(args) != 1 {
			b.sendMessage(chatID, fmt.Sprintf(t.badArgs, msg.CommandArguments()))
			return
		}
		if _, err := b.c.LiveFeed.Acknowledge(args[0]); err != nil {
			b.sendMessage(chatID, fmt.Sprintf(t.alertNotFound, args[0]))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(t.alertAcked, args[0]))

	case "test":
		if _, err := b.c.AITestService.BeginTest(ctx, user.ID, chatID); err != nil {
			slog.Error("begin test", "user", user.ID, "err", err)
			return
		}
		b.sendMessage(chatID, t.awaitingImage)

	case "cancel":
		if _, err := b.c.UserService.Cancel(ctx, user.ID, chatID); err != nil {
			slog.Error("cancel", "user", user.ID, "err", err)
			return
		}
		b.sendMessage(chatID, t.cancelled)

	case "lang":
		lang := ""
		if len(args) > 0 {
			lang = args[0]
		}
		updated, err := b.c.UserService.SetLocale(ctx, user.ID, chatID, lang)
		if err != nil {
			slog.Error("set locale", "user", user.ID, "err", err)
			return
		}
		b.sendMessage(chatID, textsFor(b.c.UserService.Locale(updated)).langSet)

	default:
		b.sendMessage(chatID, t.unknownCommand)
	}
}

// parseStatsArgs разбирает "[период] [система] [год]" в любом порядке.
// Возвращает первый нераспознанный аргумент.
func parseStatsArgs(args []string) (app.DashboardRequest, string) {
	var req app.DashboardRequest
	for _, a := range args {
		if p, err := entity.ParsePreset(a); err == nil && p != entity.PresetAll {
			req.Preset = p
			continue
		}
		if s, ok := entity.ParseSystemType(a); ok {
			req.SystemType = s
			continue
		}
		if y, err := strconv.Atoi(a); err == nil && len(a) == 4 && y >= 1000 {
			req.Year = y
			continue
		}
		return req, a
	}
	return req, ""
}

func statsTitle(req app.DashboardRequest) string {
	title := string(req.Preset)
	switch {
	case req.Year != 0 && title == "":
		title = strconv.Itoa(req.Year)
	case req.Year != 0:
		title = fmt.Sprintf("%s %d", title, req.Year)
	case title == "":
		title = string(app.DefaultPreset)
	}
	if req.SystemType == "" || req.SystemType == entity.SystemAll {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, req.SystemType)
}

// handleImage прогоняет снимок через модель и отправляет результат
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	locale := b.c.UserService.Locale(user)
	t := textsFor(locale)

	b.sendMessage(msg.Chat.ID, t.processing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		slog.Error("download photo", "file", fileID, "err", err)
		b.sendMessage(msg.Chat.ID, t.processingError)
		return
	}

	out, err := b.c.AITestService.Submit(ctx, user.ID, msg.Chat.ID, imageData, locale)
	if errors.Is(err, app.ErrInvalidImage) {
		b.sendMessage(msg.Chat.ID, t.invalidImage)
		return
	}
	if err != nil {
		slog.Error("ai test", "user", user.ID, "err", err)
		b.sendMessage(msg.Chat.ID, t.processingError)
		return
	}

	if len(out.Highlighted) > 0 {
		b.sendPhoto(msg.Chat.ID, out.Highlighted, out.Description)
		return
	}
	b.sendMessage(msg.Chat.ID, out.Description)
}

func (b *Bot) replyError(chatID int64, t texts, err error) {
	var rangeErr *entity.InvalidRangeError
	if errors.As(err, &rangeErr) || errors.Is(err, entity.ErrUnknownPreset) {
		b.sendMessage(chatID, fmt.Sprintf(t.badArgs, err.Error()))
		return
	}
	slog.Error("command failed", "chat", chatID, "err", err)
	b.sendMessage(chatID, t.processingError)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send message", "chat", chatID, "err", err)
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "defects.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		slog.Error("send photo", "chat", chatID, "err", err)
	}
}
