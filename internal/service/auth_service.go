package service

import (
	"context"
	"time"

	"maildash/internal/logger"
	"maildash/internal/model"
	"maildash/internal/repository"
)

// demoEmail identifies the shared demo account. All demo sessions map to
// it; its data is generated, so sharing is harmless.
const demoEmail = "demo@maildash.local"

type authService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   log.Named("auth"),
	}
}

func (s *authService) GetOrCreateUser(ctx context.Context, googleID, email, name, accessToken, refreshToken string, tokenExpiry time.Time) (*model.User, error) {
	existingUser, err := s.userRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		newUser := model.NewUser(googleID, email, name, accessToken, refreshToken, tokenExpiry)
		if err := s.userRepo.Create(ctx, newUser); err != nil {
			s.logger.Error("Failed to create user:", err)
			return nil, err
		}
		s.logger.Info("Created new user:", newUser.ID)
		return newUser, nil
	}

	// Re-auth: refresh the stored tokens.
	if accessToken != "" || refreshToken != "" {
		existingUser.AccessToken = accessToken
		existingUser.RefreshToken = refreshToken
		if !tokenExpiry.IsZero() {
			existingUser.TokenExpiry = tokenExpiry
		}
		existingUser.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			s.logger.Error("Failed to update user:", err)
			return nil, err
		}
		s.logger.Info("Updated existing user:", existingUser.ID)
	}

	return existingUser, nil
}

func (s *authService) GetOrCreateDemoUser(ctx context.Context) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, nil
	}

	demo := model.NewDemoUser()
	if err := s.userRepo.Create(ctx, demo); err != nil {
		s.logger.Error("Failed to create demo user:", err)
		return nil, err
	}
	s.logger.Info("Created demo user:", demo.ID)
	return demo, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
