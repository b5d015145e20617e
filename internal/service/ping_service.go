package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/cache"
	"github.com/pingv2/ping-service/internal/journal"
	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/pkg/logger"
	"go.uber.org/zap"
)

type PingResult struct {
	ResponseMessage string `json:"response_message"`
}

type PingService struct {
	moduleRepo  *repository.ModuleRepository
	messageRepo *repository.MessageRepository
	journal     *journal.Journal
	flags       *cache.FlagCache

	// When set, SendPing additionally requires an API_USER grant under
	// the enabled SECURITY module.
	enforceRoleGrant bool
}

func NewPingService(
	moduleRepo *repository.ModuleRepository,
	messageRepo *repository.MessageRepository,
	jnl *journal.Journal,
	flags *cache.FlagCache,
	enforceRoleGrant bool,
) *PingService {
	return &PingService{
		moduleRepo:       moduleRepo,
		messageRepo:      messageRepo,
		journal:          jnl,
		flags:            flags,
		enforceRoleGrant: enforceRoleGrant,
	}
}

// Ping is the unauthenticated echo: no gate, pure formatting.
func (s *PingService) Ping(message string) PingResult {
	return PingResult{ResponseMessage: "pong: " + message}
}

// IsSecurityModuleEnabled reports whether a module named SECURITY exists
// and is switched on, consulting the flag cache first.
func (s *PingService) IsSecurityModuleEnabled() (bool, error) {
	if s.flags != nil {
		if enabled, ok := s.flags.GetModuleEnabled(models.SecurityModuleName); ok {
			return enabled, nil
		}
	}

	enabled, err := s.moduleRepo.IsModuleEnabled(models.SecurityModuleName)
	if err != nil {
		return false, err
	}

	if s.flags != nil {
		s.flags.SetModuleEnabled(models.SecurityModuleName, enabled)
	}

	return enabled, nil
}

// IsAuthorizedToPing reports whether an API_USER grant exists under the
// enabled SECURITY module. The userID parameter is accepted but does not
// narrow the lookup; the grant is role-scoped.
func (s *PingService) IsAuthorizedToPing(userID uuid.UUID) (bool, error) {
	_ = userID
	return s.moduleRepo.HasRoleGrant(models.RoleAPIUser, models.SecurityModuleName)
}

// SendPing is the gated echo. It fails with ErrSecurityModuleDisabled when
// the SECURITY module is off and, when grant enforcement is configured,
// with ErrPingNotAuthorized absent an API_USER grant. Each successful
// exchange is journaled and recorded as a Message row.
func (s *PingService) SendPing(userID uuid.UUID, message string) (*PingResult, error) {
	enabled, err := s.IsSecurityModuleEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		logger.Log.Warn("Ping rejected: security module disabled",
			zap.String("user_id", userID.String()),
		)
		return nil, ErrSecurityModuleDisabled
	}

	if s.enforceRoleGrant {
		authorized, err := s.IsAuthorizedToPing(userID)
		if err != nil {
			return nil, err
		}
		if !authorized {
			logger.Log.Warn("Ping rejected: no role grant",
				zap.String("user_id", userID.String()),
			)
			return nil, ErrPingNotAuthorized
		}
	}

	response := "pong: " + message
	msgID := uuid.New()
	now := time.Now()

	if s.journal != nil {
		entry := journal.Entry{
			ID:        msgID.String(),
			UserID:    userID.String(),
			Content:   message,
			Response:  response,
			Timestamp: now,
		}
		if err := s.journal.Append(entry); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		ID:        msgID,
		UserID:    userID,
		Content:   message,
		Response:  response,
		CreatedAt: now,
	}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		return nil, err
	}

	logger.Log.Debug("Ping exchange recorded",
		zap.String("message_id", msgID.String()),
		zap.String("user_id", userID.String()),
	)

	return &PingResult{ResponseMessage: response}, nil
}

// RecoverJournal replays journal entries that never reached the store
// (crash between journal append and insert) and compacts the journal.
// Runs once at startup, before the server accepts requests.
func (s *PingService) RecoverJournal() error {
	if s.journal == nil {
		return nil
	}

	entries, err := s.journal.ReadAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var toInsert []models.Message
	persisted := make([]string, 0, len(entries))

	for _, entry := range entries {
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			logger.Log.Warn("Journal recovery: skipping malformed entry id",
				zap.String("id", entry.ID),
			)
			continue
		}
		userID, err := uuid.Parse(entry.UserID)
		if err != nil {
			logger.Log.Warn("Journal recovery: skipping malformed user id",
				zap.String("user_id", entry.UserID),
			)
			continue
		}

		exists, err := s.messageRepo.Exists(id)
		if err != nil {
			return err
		}
		if exists {
			persisted = append(persisted, entry.ID)
			continue
		}

		toInsert = append(toInsert, models.Message{
			ID:        id,
			UserID:    userID,
			Content:   entry.Content,
			Response:  entry.Response,
			CreatedAt: entry.Timestamp,
		})
		persisted = append(persisted, entry.ID)
	}

	if err := s.messageRepo.BatchInsert(toInsert); err != nil {
		return err
	}

	logger.Log.Info("Journal recovery completed",
		zap.Int("replayed", len(toInsert)),
		zap.Int("already_persisted", len(entries)-len(toInsert)),
	)

	return s.journal.Compact(persisted)
}
