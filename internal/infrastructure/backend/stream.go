package backend

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// QuoteStream subscribes to the backend's websocket quote feed. It is consumed
// by the presentation layer for live price display and is not part of the
// order-entry path.
type QuoteStream struct {
	wsURL     string
	token     string
	logger    *zap.Logger
	conn      *websocket.Conn
	callbacks []func(q domain.Quote)
	mu        sync.Mutex
}

func NewQuoteStream(wsURL, token string, logger *zap.Logger) *QuoteStream {
	return &QuoteStream{
		wsURL:  wsURL,
		token:  token,
		logger: logger,
	}
}

func (s *QuoteStream) OnQuote(callback func(q domain.Quote)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

// Connect dials the feed and starts the read loop. Subscribing while already
// connected reuses the connection.
func (s *QuoteStream) Connect(symbols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.subscribe(symbols)
	}

	c, _, err := websocket.DefaultDialer.Dial(s.wsURL+"?token="+s.token, nil)
	if err != nil {
		return err
	}
	s.conn = c

	go s.readLoop()

	return s.subscribe(symbols)
}

func (s *QuoteStream) Subscribe(symbols []string) error {
	s.mu.Lock()
	if s.conn == nil {
		s.mu.Unlock()
		return s.Connect(symbols)
	}
	defer s.mu.Unlock()
	return s.subscribe(symbols)
}

func (s *QuoteStream) subscribe(symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}
	subMsg := map[string]interface{}{
		"op":      "subscribe",
		"symbols": symbols,
	}
	return s.conn.WriteJSON(subMsg)
}

func (s *QuoteStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *QuoteStream) readLoop() {
	defer func() {
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
			s.conn = nil
		}
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn("quote stream read error", zap.Error(err))
			return
		}

		var quote domain.Quote
		if err := json.Unmarshal(message, &quote); err != nil {
			s.logger.Debug("skipping malformed quote event", zap.Error(err))
			continue
		}
		if quote.Symbol == "" {
			// Control frames (subscription acks) have no symbol.
			continue
		}

		s.mu.Lock()
		callbacks := make([]func(domain.Quote), len(s.callbacks))
		copy(callbacks, s.callbacks)
		s.mu.Unlock()

		for _, cb := range callbacks {
			cb(quote)
		}
	}
}
