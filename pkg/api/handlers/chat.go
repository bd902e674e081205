package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"kiarachat/pkg/auth"
	"kiarachat/pkg/chat"
	"kiarachat/pkg/logger"
	"kiarachat/pkg/models"
	"kiarachat/pkg/store"
	"kiarachat/pkg/telemetry"
	"kiarachat/pkg/utils"
)

// ChatHandlers serves the chat endpoints over an injected service and store.
type ChatHandlers struct {
	svc       *chat.Service
	st        *store.Store
	maxMsgLen int64
	hasAPIKey bool
}

// NewChatHandlers builds the handler set. maxMsgLen bounds the accepted
// user-message size in bytes; hasAPIKey feeds the health diagnostics.
func NewChatHandlers(svc *chat.Service, st *store.Store, maxMsgLen int64, hasAPIKey bool) *ChatHandlers {
	return &ChatHandlers{svc: svc, st: st, maxMsgLen: maxMsgLen, hasAPIKey: hasAPIKey}
}

// Register registers HTTP handlers for chat-related endpoints.
func (h *ChatHandlers) Register(r *mux.Router) {
	// /api/chat
	r.HandleFunc("/chat", h.postChat).Methods(http.MethodPost)
	r.HandleFunc("/chat/history", h.getHistory).Methods(http.MethodGet)
	r.HandleFunc("/health", h.getHealth).Methods(http.MethodGet)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Messages  []string `json:"messages"`
	Timestamp string   `json:"timestamp"`
}

func (h *ChatHandlers) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	body := http.MaxBytesReader(w, r.Body, h.maxMsgLen+1024)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if h.maxMsgLen > 0 && int64(len(req.Message)) > h.maxMsgLen {
		utils.JSONError(w, http.StatusBadRequest, "message too long")
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	reply, err := h.svc.Send(r.Context(), identity, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			utils.JSONError(w, http.StatusBadRequest, "Message is required")
			return
		}
		telemetry.CountCompletionFailure()
		logger.Error("chat_send_failed", "identity", identity, "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	logger.Info("chat_reply_sent", "identity", identity, "messages", len(reply.Messages))
	_ = utils.JSONWrite(w, http.StatusOK, chatResponse{
		Messages:  reply.Messages,
		Timestamp: reply.Timestamp.Format(time.RFC3339),
	})
}

type displayMessage struct {
	Role      models.Role `json:"role"`
	Content   string      `json:"content"`
	Timestamp string      `json:"timestamp"`
}

func (h *ChatHandlers) getHistory(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	msgs, err := h.svc.History(r.Context(), identity)
	if err != nil {
		// reads fail closed when the store is down
		logger.Error("history_read_failed", "identity", identity, "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}

	out := make([]displayMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, displayMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: time.UnixMilli(m.TS).UTC().Format(time.RFC3339),
		})
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Messages []displayMessage `json:"messages"`
	}{Messages: out})
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  struct {
		Connected bool   `json:"connected"`
		SizeBytes uint64 `json:"size_bytes"`
		Size      string `json:"size"`
	} `json:"database"`
	OpenAI struct {
		APIKeyExists bool `json:"api_key_exists"`
	} `json:"openai"`
}

func (h *ChatHandlers) getHealth(w http.ResponseWriter, r *http.Request) {
	var resp healthResponse
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	resp.Database.Connected = h.st.Ready()
	resp.OpenAI.APIKeyExists = h.hasAPIKey

	if !resp.Database.Connected {
		resp.Status = "error"
		_ = utils.JSONWrite(w, http.StatusInternalServerError, resp)
		return
	}
	size := h.st.DiskSize()
	resp.Database.SizeBytes = size
	resp.Database.Size = humanizeBytes(size)
	resp.Status = "ok"
	_ = utils.JSONWrite(w, http.StatusOK, resp)
}
