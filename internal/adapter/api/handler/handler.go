package handler

import (
	ws "outdoormatch/internal/infrastructure/websocket"
	"outdoormatch/internal/usecase"
)

var (
	profileHandler   *ProfileHandler
	communityHandler *CommunityHandler
	matchHandler     *MatchHandler
	chatHandler      *ChatHandler
	websocketHandler *WebSocketHandler
	healthHandler    *HealthHandler
)

func Setup(
	profileUseCase *usecase.ProfileUseCase,
	communityUseCase *usecase.CommunityUseCase,
	availabilityUseCase *usecase.AvailabilityUseCase,
	matchUseCase *usecase.MatchUseCase,
	chatUseCase *usecase.ChatUseCase,
	wsManager *ws.Manager,
	checks ...HealthCheck,
) {
	profileHandler = NewProfileHandler(profileUseCase, communityUseCase, matchUseCase)
	communityHandler = NewCommunityHandler(communityUseCase, availabilityUseCase)
	matchHandler = NewMatchHandler(matchUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	websocketHandler = NewWebSocketHandler(chatUseCase, wsManager)
	healthHandler = NewHealthHandler(checks...)
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetCommunityHandler() *CommunityHandler {
	return communityHandler
}

func GetMatchHandler() *MatchHandler {
	return matchHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
