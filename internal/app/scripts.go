package app

import (
	"github.com/dshills/eventmgr/internal/event/manager"
	"github.com/dshills/eventmgr/internal/script"
)

// load reads the script at path and attaches it to target. Loading the
// same path for the same target again is a no-op.
func (a *App) load(path string, target manager.EventManager) error {
	path = absPath(path)
	if s, ok := a.scripts[path]; ok {
		if s.target != target {
			return NewOperationError("load script", path, ErrScriptConflict)
		}
		return nil
	}

	l, err := script.Load(path)
	if err != nil {
		return NewOperationError("load script", path, err)
	}
	if err := target.AttachListener(l, "", a.cfg.DefaultPriority); err != nil {
		_ = l.Close()
		return NewOperationError("attach script", path, err)
	}

	a.scripts[path] = &loaded{listener: l, target: target}
	a.log.Info().Str("script", path).Strs("events", eventNames(l)).Msg("script loaded")
	return nil
}

// Reload replaces a loaded script with the current file contents. When the
// new version fails to load or attach, the old one stays in place.
func (a *App) Reload(path string) error {
	path = absPath(path)
	old, ok := a.scripts[path]
	if !ok {
		return NewOperationError("reload", path, ErrUnknownScript)
	}

	l, err := script.Load(path)
	if err != nil {
		a.log.Warn().Err(err).Str("script", path).Msg("reload failed, keeping previous version")
		return NewOperationError("reload", path, err)
	}

	if err := old.target.DetachListener(old.listener, ""); err != nil {
		_ = l.Close()
		return NewOperationError("detach script", path, err)
	}
	if err := old.target.AttachListener(l, "", a.cfg.DefaultPriority); err != nil {
		_ = l.Close()
		if rerr := old.target.AttachListener(old.listener, "", a.cfg.DefaultPriority); rerr != nil {
			a.log.Error().Err(rerr).Str("script", path).Msg("restoring previous version failed")
		}
		return NewOperationError("attach script", path, err)
	}

	_ = old.listener.Close()
	a.scripts[path] = &loaded{listener: l, target: old.target}
	a.log.Info().Str("script", path).Strs("events", eventNames(l)).Msg("script reloaded")
	return nil
}

func eventNames(l *script.Listener) []string {
	decls := l.EventsListening()
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	return names
}
