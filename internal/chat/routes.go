package chat

import (
	"net/http"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/view"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
)

type messageParams struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type Handler struct {
	service  *Service
	flows    FlowCreator
	location *time.Location
	limit    gin.HandlerFunc
}

// NewHandler serves the widget. limit guards the routes that reach the
// assistant and may be nil.
func NewHandler(service *Service, flows FlowCreator, location *time.Location, limit gin.HandlerFunc) *Handler {
	return &Handler{
		service:  service,
		flows:    flows,
		location: location,
		limit:    limit,
	}
}

func (h *Handler) Register(router gin.IRouter) {
	group := router.Group("/api/chat/sessions")

	limited := []gin.HandlerFunc{}
	if h.limit != nil {
		limited = append(limited, h.limit)
	}

	group.POST("", append(limited, web.TapLogger("startChat", ""), h.start)...)
	group.GET("/:id", web.TapLogger("getChat", "id"), h.get)
	group.POST("/:id/messages", append(limited,
		web.TapLogger("sendChatMessage", "id"),
		web.PrepareParams[messageParams](),
		h.send,
	)...)
	group.POST("/:id/handoff", web.TapLogger("handOffChat", "id"), h.handoff)
}

func (h *Handler) start(c *gin.Context) {
	session, err := h.service.Start(c.Request.Context())
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *Handler) get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) send(c *gin.Context) {
	params := web.Params[messageParams](c)

	turn, err := h.service.Send(c.Request.Context(), c.Param("id"), params.Text)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

func (h *Handler) handoff(c *gin.Context) {
	flow, err := h.service.Handoff(c.Request.Context(), c.Param("id"), h.flows)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view.Render(flow, h.location))
}
