package main

import (
	"errors"
	"net/http"

	"minitwit/internal/model"
	"minitwit/internal/service"
)

// POST /register
func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var candidate model.Account
	if err := decodeJSON(r, &candidate); err != nil {
		s.reject(w, r, "register", http.StatusBadRequest, err)
		return
	}

	acct, err := s.accounts.Register(r.Context(), candidate)
	if err != nil {
		s.reject(w, r, "register", http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

// POST /login
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials model.Account
	if err := decodeJSON(r, &credentials); err != nil {
		s.reject(w, r, "login", http.StatusUnauthorized, err)
		return
	}

	acct, err := s.accounts.Login(r.Context(), credentials)
	if err != nil {
		s.reject(w, r, "login", http.StatusUnauthorized, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

// POST /messages
func (s *server) addMessageHandler(w http.ResponseWriter, r *http.Request) {
	var candidate model.Message
	if err := decodeJSON(r, &candidate); err != nil {
		s.reject(w, r, "create_message", http.StatusBadRequest, err)
		return
	}

	msg, err := s.messages.Create(r.Context(), candidate)
	if err != nil {
		s.reject(w, r, "create_message", http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// GET /messages
func (s *server) allMessagesHandler(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messages.GetAll(r.Context())
	if err != nil {
		s.log.WithError(err).Error("listing messages failed")
		messages = []model.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// GET /messages/{message_id}. An unknown id is answered with 200 and an
// empty body.
func (s *server) messageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		writeEmpty(w)
		return
	}

	msg, err := s.messages.GetByID(r.Context(), id)
	if err != nil {
		s.logAbsent(err, "reading message failed")
		writeEmpty(w)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// DELETE /messages/{message_id} answers with the deleted message, or 200
// and an empty body when there was nothing to delete.
func (s *server) deleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		writeEmpty(w)
		return
	}

	msg, err := s.messages.DeleteByID(r.Context(), id)
	if err != nil {
		s.logAbsent(err, "deleting message failed")
		writeEmpty(w)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// PATCH /messages/{message_id}
func (s *server) updateMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		s.reject(w, r, "update_message", http.StatusBadRequest, err)
		return
	}

	var patch model.Message
	if err := decodeJSON(r, &patch); err != nil {
		s.reject(w, r, "update_message", http.StatusBadRequest, err)
		return
	}

	msg, err := s.messages.UpdateByID(r.Context(), id, patch.Text)
	if err != nil {
		s.reject(w, r, "update_message", http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// GET /accounts/{account_id}/messages
func (s *server) accountMessagesHandler(w http.ResponseWriter, r *http.Request) {
	messages := []model.Message{}

	id, err := pathID(r, "account_id")
	if err == nil {
		messages, err = s.messages.GetAllByAuthor(r.Context(), id)
		if err != nil {
			s.log.WithError(err).WithField("account_id", id).Error("listing account messages failed")
			messages = []model.Message{}
		}
	}
	writeJSON(w, http.StatusOK, messages)
}

// GET /healthz
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.log.WithError(err).Error("health check failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}

// logAbsent logs lookups that failed for reasons other than a missing row.
func (s *server) logAbsent(err error, msg string) {
	if !errors.Is(err, service.ErrNotFound) {
		s.log.WithError(err).Error(msg)
	}
}
