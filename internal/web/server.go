package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"sort"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/game"
	gamelog "github.com/peterkuimelis/bandclash/internal/log"
	bandnet "github.com/peterkuimelis/bandclash/internal/net"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Role        string `json:"role"`
	Damage      int    `json:"damage,omitempty"`
	Heal        int    `json:"heal,omitempty"`
	MaxTargets  int    `json:"maxTargets"`
	Multi       bool   `json:"multi,omitempty"`
	HitEffect   string `json:"hitEffect,omitempty"`
	Custom      bool   `json:"custom,omitempty"`
}

// connectMessage is the first message a browser sends on /ws. An empty Addr plays
// against the AI in this process; otherwise the socket is bridged to a `bandclash host`.
type connectMessage struct {
	Type       string `json:"type"`
	Addr       string `json:"addr"`
	DeckNumber int    `json:"deck_number"`
	Difficulty string `json:"difficulty"`
}

// Server is the bandclash web UI server.
type Server struct {
	settings *config.Match
	logger   *zap.Logger
	mux      *http.ServeMux
}

// NewServer creates a new web server. Local matches start from settings. A nil
// logger discards diagnostics.
func NewServer(settings *config.Match, logger *zap.Logger) (*Server, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		settings: settings,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := make(map[string]CardInfo, len(game.CardRegistry))
	for name, ctor := range game.CardRegistry {
		cards[name] = cardInfo(ctor(), false)
	}
	// Custom cards from the deck file shadow built-ins
	if df, err := game.LoadDeckFile(s.settings.DecksFile); err == nil {
		if custom, err := df.Catalog(); err == nil {
			for name, c := range custom {
				cards[name] = cardInfo(c, true)
			}
		}
	}

	out := make([]CardInfo, 0, len(cards))
	for _, ci := range cards {
		out = append(out, ci)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func cardInfo(c *game.Card, custom bool) CardInfo {
	return CardInfo{
		Name:        c.Name,
		Description: c.Description,
		Role:        c.Role.String(),
		Damage:      c.DamageBonus,
		Heal:        c.HealthBonus,
		MaxTargets:  c.MaxMultiTargets,
		Multi:       c.IsMultiTarget(),
		HitEffect:   c.HitEffect,
		Custom:      custom,
	}
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := loadDeckInfos(s.settings.DecksFile)
	if err != nil {
		s.logger.Error("load decks", zap.String("file", s.settings.DecksFile), zap.Error(err))
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Warn("websocket read connect", zap.Error(err))
		return
	}

	var connectMsg connectMessage
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}
	join := bandnet.ClientMessage{
		Type:       bandnet.MsgJoin,
		DeckNumber: connectMsg.DeckNumber,
		Difficulty: connectMsg.Difficulty,
	}

	s.logger.Info("match requested",
		zap.String("remote", r.RemoteAddr),
		zap.String("addr", connectMsg.Addr),
		zap.Int("deck", connectMsg.DeckNumber),
		zap.String("difficulty", connectMsg.Difficulty))

	if connectMsg.Addr != "" {
		s.proxy(r, wsConn, connectMsg.Addr, join)
		return
	}

	settings := bandnet.ApplyJoin(s.settings, join)
	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)
	defer conn.Close()
	if err := settings.Validate(); err != nil {
		s.writeError(r, wsConn, err.Error())
		wsConn.Close(websocket.StatusPolicyViolation, "bad settings")
		return
	}

	session, err := bandnet.NewSessionFromSettings(conn, settings, gamelog.NewMemoryLogger())
	if err != nil {
		s.writeError(r, wsConn, err.Error())
		wsConn.Close(websocket.StatusInternalError, "could not start match")
		return
	}
	if err := session.Run(ctx); err != nil {
		s.logger.Warn("match ended early", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	s.logger.Info("match finished", zap.String("remote", r.RemoteAddr), zap.String("result", session.Match.Result()))
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// proxy bridges the browser to a remote game server over TCP. Whichever side ends
// first tears down the other: a browser disconnect closes the TCP connection and a
// host disconnect cancels the websocket read.
func (s *Server) proxy(r *http.Request, wsConn *websocket.Conn, addr string, join bandnet.ClientMessage) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	tcpConn, err := net.Dial("tcp", addr)
	if err != nil {
		s.writeError(r, wsConn, fmt.Sprintf("Could not connect to game server at %s: %v", addr, err))
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	if err := json.NewEncoder(tcpConn).Encode(join); err != nil {
		s.logger.Warn("tcp write join", zap.String("addr", addr), zap.Error(err))
		return
	}

	browserDone := make(chan struct{})
	go func() {
		defer close(browserDone)
		defer tcpConn.Close()
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			if _, err := tcpConn.Write(append(data, '\n')); err != nil {
				s.logger.Warn("tcp write", zap.String("addr", addr), zap.Error(err))
				return
			}
		}
	}()

	dec := json.NewDecoder(tcpConn)
	for {
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("tcp read", zap.String("addr", addr), zap.Error(err))
			}
			break
		}
		if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
			s.logger.Warn("websocket write", zap.Error(err))
			break
		}
	}
	cancel()
	<-browserDone
	s.logger.Info("proxy closed", zap.String("remote", r.RemoteAddr), zap.String("addr", addr))
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

func (s *Server) writeError(r *http.Request, wsConn *websocket.Conn, text string) {
	data, _ := json.Marshal(bandnet.ServerMessage{Type: bandnet.MsgError, Error: text})
	if err := wsConn.Write(r.Context(), websocket.MessageText, data); err != nil {
		s.logger.Warn("websocket write", zap.Error(err))
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
