package router

import (
	auth "cardgame_backend/internal/auth/controller"
	deck "cardgame_backend/internal/deck/controller"
	game "cardgame_backend/internal/game/controller"
	room "cardgame_backend/internal/room/controller"
	"github.com/gorilla/mux"
)

func SetUpRoutes(authHandler *auth.AuthHandler, roomHandler *room.RoomHandler, gameHandler *game.GameHandler, deckHandler *deck.DeckHandler) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth", authHandler.LoginUser).Methods("POST") // Auth or register user

	api.HandleFunc("/rooms", roomHandler.CreateRoom).Methods("POST")
	api.HandleFunc("/rooms/join", roomHandler.JoinRoom).Methods("POST")
	api.HandleFunc("/rooms/leave", roomHandler.LeaveRoom).Methods("POST")
	api.HandleFunc("/rooms/{roomId:[0-9]+}", roomHandler.GetRoom).Methods("GET")
	api.HandleFunc("/rooms/{roomId:[0-9]+}", roomHandler.UpdateRoom).Methods("PUT")      // Switch room privacy
	api.HandleFunc("/rooms/{roomId:[0-9]+}", roomHandler.DeleteRoom).Methods("DELETE")   // Owner only, cascades games
	api.HandleFunc("/rooms/{roomId:[0-9]+}/kick", roomHandler.KickPlayer).Methods("PUT") // Owner removes the player

	api.HandleFunc("/games/start", gameHandler.StartGame).Methods("POST")
	api.HandleFunc("/games/end", gameHandler.EndGame).Methods("POST")
	api.HandleFunc("/games/surrender", gameHandler.SurrenderGame).Methods("POST")
	api.HandleFunc("/games/history", gameHandler.ListHistory).Methods("GET")

	api.HandleFunc("/decks", deckHandler.CreateRandomDeck).Methods("POST")
	api.HandleFunc("/decks/custom", deckHandler.CreateCustomDeck).Methods("POST")
	api.HandleFunc("/decks", deckHandler.ListDecks).Methods("GET")
	api.HandleFunc("/decks/{deckId:[0-9]+}", deckHandler.GetDeck).Methods("GET")
	api.HandleFunc("/decks/{deckId:[0-9]+}", deckHandler.UpdateDeck).Methods("PUT")
	api.HandleFunc("/decks/{deckId:[0-9]+}", deckHandler.DeleteDeck).Methods("DELETE")
	api.HandleFunc("/decks/{deckId:[0-9]+}/cards/add", deckHandler.AddCard).Methods("PUT")
	api.HandleFunc("/decks/{deckId:[0-9]+}/cards/remove", deckHandler.RemoveCard).Methods("PUT")
	return router
}
