package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/velorashop/velora/internal/telemetry/metrics"
	"github.com/velorashop/velora/pkg"
)

type contactsRepo interface {
	Add(ctx context.Context, message *Message) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Message, error)
}

type Handler struct {
	repo           contactsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo contactsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/contacts", handler.handleNewMessage).Methods("POST", "OPTIONS").Name("new-contact-message")
	router.HandleFunc("/api/admin/contacts", handler.handleAll).Methods("GET", "OPTIONS").Name("all-contact-messages")
	router.HandleFunc("/api/admin/contacts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-contact-message")
}

func (handler *Handler) handleNewMessage(w http.ResponseWriter, r *http.Request) {
	var message Message
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
			log.Warnf("new contact message, unmarshal json params: %s", err)
			pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Warnf("new contact message, parse form error: %s", err)
			pkg.WriteAPIError(w, "parse form error", http.StatusBadRequest)
			return
		}
		message = Message{
			Name:    r.Form.Get("name"),
			Email:   r.Form.Get("email"),
			Subject: r.Form.Get("subject"),
			Content: r.Form.Get("message"),
		}
	}

	if message.Email == "" || message.Content == "" {
		pkg.WriteAPIError(w, "email and message content are required", http.StatusBadRequest)
		return
	}

	// sender IP is best-effort metadata, a bad address never blocks the message
	senderIP, err := pkg.ReadUserIP(r)
	if err != nil {
		log.Warnf("new contact message, read sender ip: %s", err)
	}
	message.SenderIP = senderIP

	if err := handler.repo.Add(r.Context(), &message); err != nil {
		log.Errorf("store contact message failed: %s", err)
		pkg.WriteAPIError(w, "failed to store message", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterContactMessages.Inc()
	log.Tracef("contact message %d received from %s", message.ID, message.SenderIP)

	pkg.WriteAPIMessage(w, "message received", http.StatusCreated)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	messages, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get contact messages error: %s", err)
		pkg.WriteAPIError(w, "failed to get messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []*Message{}
	}

	messagesJson, err := json.Marshal(messages)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, messagesJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		pkg.WriteAPIError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			pkg.WriteAPIError(w, "message not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete contact message %d: %s", id, err)
		pkg.WriteAPIError(w, "delete message failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIMessage(w, fmt.Sprintf("deleted:%d", id), http.StatusOK)
}
