package handler

import (
	"github.com/bishwashp/ShiftPlanner-sub003/internal/config"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/service"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	client         *telegram.Client
	analystService *service.AnalystService
	detector       *service.ConflictDetectorService
	generator      *service.ScheduleGeneratorService
	workflow       *service.AbsenceWorkflowService
	impact         *service.ImpactAnalyzerService
	ledger         *service.FairnessLedgerService
	compOff        service.CompOffBalancer
	config         *config.Config
}

func NewHandler(
	client *telegram.Client,
	analystService *service.AnalystService,
	detector *service.ConflictDetectorService,
	generator *service.ScheduleGeneratorService,
	workflow *service.AbsenceWorkflowService,
	impact *service.ImpactAnalyzerService,
	ledger *service.FairnessLedgerService,
	compOff service.CompOffBalancer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		client:         client,
		analystService: analystService,
		detector:       detector,
		generator:      generator,
		workflow:       workflow,
		impact:         impact,
		ledger:         ledger,
		compOff:        compOff,
		config:         cfg,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	logrus.Infof("[%s] %s", message.From.UserName, message.Text)

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "💬 I only understand commands. Use /help for the list.")
	h.client.Bot.Send(msg)
}
