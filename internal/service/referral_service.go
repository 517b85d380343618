package service

import (
	"context"

	"clicker_webapp/internal/repository"
)

// ReferralLink is what the client shares to invite friends.
type ReferralLink struct {
	Code string `json:"code"`
	Link string `json:"link"`
}

type ReferralService struct {
	players         *repository.PlayerRepository
	referrals       *repository.ReferralRepository
	botUsername     string
	webAppShortName string
}

func NewReferralService(players *repository.PlayerRepository, referrals *repository.ReferralRepository, botUsername, webAppShortName string) *ReferralService {
	return &ReferralService{
		players:         players,
		referrals:       referrals,
		botUsername:     botUsername,
		webAppShortName: webAppShortName,
	}
}

// BuildReferralLink opens the Mini App directly with the code as start param.
func BuildReferralLink(botUsername, webAppShortName, code string) string {
	return "https://t.me/" + botUsername + "/" + webAppShortName + "?startapp=ref_" + code
}

func (s *ReferralService) Link(ctx context.Context, userID int64) (ReferralLink, error) {
	code, err := s.players.GetReferralCode(ctx, userID)
	if err != nil {
		return ReferralLink{}, err
	}
	return ReferralLink{Code: code, Link: BuildReferralLink(s.botUsername, s.webAppShortName, code)}, nil
}

func (s *ReferralService) Friends(ctx context.Context, userID int64, limit int) ([]repository.Friend, *repository.ReferralStats, error) {
	stats, err := s.referrals.GetStats(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	friends, err := s.referrals.ListInvited(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	return friends, stats, nil
}
