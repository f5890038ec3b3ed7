package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"regexp"
	"strconv"
	"strings"

	"hostelgrievance/internal/adapters/persistence/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// captionIDPattern matches a numeric complaint token, optionally
// prefixed with '#', anywhere in the caption.
var captionIDPattern = regexp.MustCompile(`#?(\d+)`)

// ParseCaptionComplaintID extracts a complaint identifier from a
// message caption. Returns false when the caption carries no numeric
// token.
func ParseCaptionComplaintID(caption string) (uint, bool) {
	m := captionIDPattern.FindStringSubmatch(caption)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ProofService ingests worker-submitted completion photos arriving
// through the messaging webhook
type ProofService struct {
	complaintRepo repositories.ComplaintRepository
	workerRepo    repositories.WorkerRepository
	chat          ChatSender
	uploader      Uploader
}

// NewProofService creates a new proof intake service
func NewProofService(
	complaintRepo repositories.ComplaintRepository,
	workerRepo repositories.WorkerRepository,
	chat ChatSender,
	uploader Uploader,
) *ProofService {
	return &ProofService{
		complaintRepo: complaintRepo,
		workerRepo:    workerRepo,
		chat:          chat,
		uploader:      uploader,
	}
}

// WorkerMediaInput represents one decoded inbound webhook message
type WorkerMediaInput struct {
	SenderPhone      string
	MediaURL         string
	MediaContentType string
	Caption          string
}

// ReceiveWorkerMedia attaches photographic proof to the right open
// complaint. Every internal outcome is a no-op from the transport's
// point of view: errors are returned for logging only and the caller
// must still acknowledge the webhook. Complaint status never changes
// here; resolution stays an explicit admin action.
func (s *ProofService) ReceiveWorkerMedia(ctx context.Context, input *WorkerMediaInput) error {
	if input.MediaURL == "" {
		return nil
	}

	worker, err := s.workerRepo.GetByPhone(ctx, normalizePhone(input.SenderPhone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Webhook media from unknown sender %s, ignored", input.SenderPhone)
			return nil
		}
		return err
	}

	var complaintID uint
	if id, ok := ParseCaptionComplaintID(input.Caption); ok {
		complaintID = id
	} else {
		latest, err := s.complaintRepo.LatestAssignedToWorker(ctx, worker.ID)
		if err != nil {
			return err
		}
		if latest == nil {
			log.Printf("⚠️ Proof from %s but no assigned complaint, ignored", worker.Name)
			return nil
		}
		complaintID = latest.ID
	}

	if _, err := s.complaintRepo.GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Proof from %s references unknown complaint #%d, ignored", worker.Name, complaintID)
			return nil
		}
		return err
	}

	media, contentType, err := s.chat.FetchMedia(ctx, input.MediaURL)
	if err != nil {
		return fmt.Errorf("fetch media: %w", err)
	}
	defer media.Close()

	if contentType == "" {
		contentType = input.MediaContentType
	}

	name := uuid.New().String() + extensionFor(contentType)
	proofURL, err := s.uploader.Upload(ctx, "proofs", name, contentType, media)
	if err != nil {
		return fmt.Errorf("upload proof: %w", err)
	}

	if err := s.complaintRepo.SetWorkerProof(ctx, complaintID, proofURL); err != nil {
		return err
	}

	log.Printf("✅ Proof attached to complaint #%d by %s", complaintID, worker.Name)
	return nil
}

// normalizePhone strips the transport's channel prefix
func normalizePhone(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "whatsapp:")
}

// extensionFor picks a file extension for the stored object
func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ".jpg"
	}
	return exts[0]
}
