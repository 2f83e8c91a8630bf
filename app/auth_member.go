package app

import (
	"fmt"

	"github.com/artpar/digigate/domain/member"
	"github.com/artpar/digigate/domain/trx"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// MemberAuthService authenticates members and verifies their credentials or
// transaction signature. Stateless apart from the record source; safe for
// concurrent use.
type MemberAuthService struct {
	members    ports.MemberSource
	signatures *SignatureService
	logger     zerolog.Logger
}

// NewMemberAuthService creates a member authorization service.
func NewMemberAuthService(members ports.MemberSource, logger zerolog.Logger) *MemberAuthService {
	return &MemberAuthService{
		members:    members,
		signatures: NewSignatureService(),
		logger:     logger,
	}
}

// AuthenticateAndVerify resolves the member, checks the active flag, and
// verifies either the transaction signature or, for members allowed to skip
// signing, the PIN/password credentials.
func (s *MemberAuthService) AuthenticateAndVerify(req trx.Request) (member.Member, error) {
	logger := s.logger.With().Str("memberid", req.MemberID).Logger()
	logger.Info().Msg("authenticating member")

	m, err := s.activeMember(req.MemberID)
	if err != nil {
		logger.Warn().Err(err).Msg("member authentication failed")
		return member.Member{}, err
	}

	if req.Sign != "" {
		err = s.verifySignature(req, m)
	} else {
		err = s.verifyCredentials(req, m)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("member verification failed")
		return member.Member{}, err
	}

	logger.Info().Msg("member authenticated")
	return m, nil
}

func (s *MemberAuthService) activeMember(memberID string) (member.Member, error) {
	m, ok := s.members.GetByID(memberID)
	if !ok {
		return member.Member{}, &AuthError{
			Stage:   StageMember,
			Code:    CodeNotFound,
			Message: fmt.Sprintf("member %q not found", memberID),
		}
	}
	if !m.Active() {
		return member.Member{}, &AuthError{
			Stage:   StageMember,
			Code:    CodeInactive,
			Message: "member is not active",
		}
	}
	return m, nil
}

func (s *MemberAuthService) verifySignature(req trx.Request, m member.Member) error {
	fields := SignatureFields{
		MemberID: req.MemberID,
		Product:  req.Product,
		Dest:     req.Dest,
		RefID:    req.RefID,
		PIN:      m.PIN.Value(),
		Password: m.Password.Value(),
	}
	if !s.signatures.Verify(fields, req.Sign) {
		return &AuthError{
			Stage:   StageMember,
			Code:    CodeInvalidSignature,
			Message: "signature is not valid",
		}
	}
	return nil
}

// verifyCredentials handles the no-signature path. If neither the PIN nor the
// password matches the stored secrets the rejection is InvalidCredentials;
// a matching credential from a member that is not allowed to skip signing is
// rejected with SignatureRequired.
func (s *MemberAuthService) verifyCredentials(req trx.Request, m member.Member) error {
	matched := (req.PIN != "" && req.PIN == m.PIN.Value()) ||
		(req.Password != "" && req.Password == m.Password.Value())
	if !matched {
		return &AuthError{
			Stage:   StageMember,
			Code:    CodeInvalidCredentials,
			Message: "PIN or password is not valid",
		}
	}
	if !m.AllowNosign {
		return &AuthError{
			Stage:   StageMember,
			Code:    CodeSignatureRequired,
			Message: "signature is required for this member",
		}
	}
	return nil
}
