package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/service"
	ws "github.com/scoorly/scoorly-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the quiz session lifecycle over a WebSocket so the
// player can record answers without per-request HTTP overhead.
type WSHandler struct {
	sessionService *service.QuizSessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.QuizSessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/stream?token=...
// Upgrades to WebSocket for real-time answer capture and completion.
func (h *WSHandler) QuizStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := claims.UserID
	clientID := userID.String()

	wsLog := h.log.With().Str("user_id", clientID).Logger()
	wsLog.Info().Msg("Quiz stream connected")

	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			ws.WriteError(conn, "malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			h.handleAnswer(c, conn, clientID, raw)
		case ws.ActionComplete:
			h.handleComplete(c, conn, wsLog, clientID, raw)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(envelope.Action))
		}
	}
}

// handleAnswer appends one answer to the session in progress.
func (h *WSHandler) handleAnswer(c *gin.Context, conn *websocket.Conn, clientID string, raw []byte) {
	var msg ws.AnswerRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		ws.WriteError(conn, "malformed answer payload")
		return
	}

	if msg.QuestionID == "" || msg.SelectedAnswer == "" {
		ws.WriteError(conn, "question_id and selected_answer are required")
		return
	}

	session, err := h.sessionService.RecordAnswer(c.Request.Context(), clientID, userIDFromContext(c), model.RecordAnswerRequest{
		QuestionID:     msg.QuestionID,
		SelectedAnswer: msg.SelectedAnswer,
		IsCorrect:      msg.IsCorrect,
		TimeSpent:      msg.TimeSpent,
	})
	if err != nil {
		ws.WriteError(conn, "failed to record answer")
		return
	}
	if session == nil {
		ws.WriteError(conn, "no active session")
		return
	}

	ws.WriteTyped(conn, ws.SavedResponse{
		Event:       ws.EventSaved,
		AnswerCount: len(session.Answers),
	})
}

// handleComplete finalizes the session in progress.
func (h *WSHandler) handleComplete(c *gin.Context, conn *websocket.Conn, wsLog zerolog.Logger, clientID string, raw []byte) {
	var msg ws.CompleteRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		ws.WriteError(conn, "malformed complete payload")
		return
	}

	results, err := h.sessionService.Complete(
		c.Request.Context(),
		clientID,
		userIDFromContext(c),
		msg.FinalScore,
		msg.TimeSpent,
		msg.TotalQuestions,
	)
	if err != nil {
		ws.WriteError(conn, "failed to complete session")
		return
	}
	if results == nil {
		ws.WriteError(conn, "no active session")
		return
	}

	wsLog.Info().
		Str("session_id", results.ID).
		Int("score", derefInt(results.FinalScore)).
		Msg("Session completed over stream")

	ws.WriteTyped(conn, ws.CompletedResponse{
		Event: ws.EventCompleted,
		Score: derefInt(results.FinalScore),
		Total: derefInt(results.TotalQuestions),
	})
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
