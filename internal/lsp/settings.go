package lsp

import "encoding/json"

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if !s.applySettings(params.Settings) {
		return nil
	}
	// настройки влияют на диагностику: перепроверяем все открытые документы
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.scheduleAnalysis(uri)
	}
	return nil
}

// applySettings reports whether analysis options changed.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false
	}
	in := settings.Sysy
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Trace != nil {
		s.traceLSP = *in.Trace
	}
	before := s.cfg.Fingerprint()
	if in.MaxDiagnostics != nil {
		s.cfg.MaxDiagnostics = *in.MaxDiagnostics
	}
	setFlag(&s.cfg.WarnUnused, in.WarnUnused)
	setFlag(&s.cfg.WarnUninitialized, in.WarnUninitialized)
	setFlag(&s.cfg.WarnInfiniteLoop, in.WarnInfiniteLoop)
	setFlag(&s.cfg.WarnMissingSemicolon, in.WarnMissingSemicolon)
	return s.cfg.Fingerprint() != before
}

func setFlag(dst, v *bool) {
	if v != nil {
		*dst = *v
	}
}
