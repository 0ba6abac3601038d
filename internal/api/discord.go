package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type DiscordUser struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Avatar     *string `json:"avatar"`
}

func (a *API) getDiscordUser(ctx context.Context, accessToken string) (*DiscordUser, error) {
	var user DiscordUser
	resp, err := resty.New().
		SetTimeout(10*time.Second).
		R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("User-Agent", "haileybot/1.0 (+https://github.com/susu3304/haileybot)").
		SetHeader("Accept", "application/json").
		SetResult(&user).
		Get(a.discordAPI + "/users/@me")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discord API returned status %d", resp.StatusCode())
	}
	return &user, nil
}

func getUsername(user *DiscordUser) string {
	if user.GlobalName != nil && *user.GlobalName != "" {
		return *user.GlobalName
	}
	return user.Username
}
