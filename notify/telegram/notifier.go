// Copyright 2026 Groundline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package telegram implements notify.Notifier over the Telegram Bot API,
// using inline keyboard buttons for approve/reject decisions.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/groundline/groundline/notify"
)

const (
	callbackApprove = "approve"
	callbackDecline = "decline"
)

// Notifier sends messages and confirmation prompts to one Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// NewNotifier creates a Telegram notifier for the given bot token and chat.
//
// Returns notify.Notifier interface to enforce abstraction.
func NewNotifier(token string, chatID int64) (notify.Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Notifier{
		bot:    bot,
		chatID: chatID,
		logger: slog.Default().With("component", "telegram-notifier"),
	}, nil
}

// Send delivers a plain text message to the chat.
func (n *Notifier) Send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// RequestConfirmation sends the prompt with Approve/Decline buttons and
// listens for the button press. The decision arrives on the returned
// channel; the update listener shuts down once a decision is delivered or
// ctx is canceled.
func (n *Notifier) RequestConfirmation(ctx context.Context, prompt string) (<-chan notify.Decision, error) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", callbackApprove),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", callbackDecline),
		),
	)

	msg := tgbotapi.NewMessage(n.chatID, prompt)
	msg.ReplyMarkup = keyboard
	sent, err := n.bot.Send(msg)
	if err != nil {
		return nil, fmt.Errorf("send confirmation prompt: %w", err)
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := n.bot.GetUpdatesChan(updateCfg)

	decisions := make(chan notify.Decision, 1)
	go func() {
		defer close(decisions)
		defer n.bot.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.CallbackQuery == nil {
					continue
				}
				if update.CallbackQuery.Message == nil || update.CallbackQuery.Message.MessageID != sent.MessageID {
					continue
				}

				decision := notify.DecisionRejected
				if update.CallbackQuery.Data == callbackApprove {
					decision = notify.DecisionApproved
				}

				// Acknowledge the button press so the client stops spinning.
				callback := tgbotapi.NewCallback(update.CallbackQuery.ID, decision.String())
				if _, err := n.bot.Request(callback); err != nil {
					n.logger.Warn("failed to answer callback query", "err", err)
				}

				n.resolvePrompt(prompt, sent.MessageID, decision)
				decisions <- decision
				return
			}
		}
	}()

	return decisions, nil
}

// resolvePrompt replaces the buttons with the final outcome.
func (n *Notifier) resolvePrompt(prompt string, messageID int, decision notify.Decision) {
	status := "❌ Declined"
	if decision == notify.DecisionApproved {
		status = "✅ Approved"
	}
	edit := tgbotapi.NewEditMessageText(n.chatID, messageID, prompt+"\n\n"+status)
	if _, err := n.bot.Send(edit); err != nil {
		n.logger.Warn("failed to edit confirmation message", "err", err)
	}
}
