package controller

import "github.com/sharetube/playback/pkg/wsrouter"

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.SetValidator(c.validate.Check)
	mux.SetErrorHandler(c.handleWSError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)
	wsrouter.Handle(mux, "GET_STATE", c.handleGetState)
	wsrouter.Handle(mux, "DESTROY", c.handleDestroy)

	// bridge signals
	wsrouter.Handle(mux, "PROVIDER_MESSAGE", withPlayer(c, c.handleProviderMessage))
	wsrouter.Handle(mux, "FULLSCREEN_CHANGE", withPlayer(c, c.handleFullscreenChange))

	// controls
	wsrouter.Handle(mux, "PLAY", withPlayer(c, c.handlePlay))
	wsrouter.Handle(mux, "PAUSE", withPlayer(c, c.handlePause))
	wsrouter.Handle(mux, "TOGGLE_PLAY", withPlayer(c, c.handleTogglePlay))
	wsrouter.Handle(mux, "SEEK", withPlayer(c, c.handleSeek))
	wsrouter.Handle(mux, "SEEK_START", withPlayer(c, c.handleSeekStart))
	wsrouter.Handle(mux, "SEEK_END", withPlayer(c, c.handleSeekEnd))
	wsrouter.Handle(mux, "SET_VOLUME", withPlayer(c, c.handleSetVolume))
	wsrouter.Handle(mux, "SET_MUTED", withPlayer(c, c.handleSetMuted))
	wsrouter.Handle(mux, "TOGGLE_FULLSCREEN", withPlayer(c, c.handleToggleFullscreen))
	wsrouter.Handle(mux, "CLICK", withPlayer(c, c.handleClick))
	wsrouter.Handle(mux, "SET_OPTIONS", withPlayer(c, c.handleSetOptions))

	// queue
	wsrouter.Handle(mux, "CUE_MEDIA", withPlayer(c, c.handleCueMedia))
	wsrouter.Handle(mux, "SET_QUEUE", withPlayer(c, c.handleSetQueue))
	wsrouter.Handle(mux, "ENQUEUE", withPlayer(c, c.handleEnqueue))
	wsrouter.Handle(mux, "SELECT_MEDIA", c.handleSelectMedia)
	wsrouter.Handle(mux, "NEXT", withPlayer(c, c.handleNext))
	wsrouter.Handle(mux, "PREVIOUS", withPlayer(c, c.handlePrevious))
	wsrouter.Handle(mux, "SET_SHUFFLE", withPlayer(c, c.handleSetShuffle))

	return mux
}
