package dashboard

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kursbot/internal/notify"
	"kursbot/internal/p2p"
)

const sessionUserKey = "user"

// SellerHandler serves the seller board pages and the JSON listing.
type SellerHandler struct {
	sellers *p2p.Store
	logger  *logrus.Logger
}

func NewSellerHandler(sellers *p2p.Store, logger *logrus.Logger) *SellerHandler {
	return &SellerHandler{sellers: sellers, logger: logger}
}

func (h *SellerHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "sellers", gin.H{"Sellers": h.sellers.List()})
}

func (h *SellerHandler) ListJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.sellers.List())
}

func (h *SellerHandler) Create(c *gin.Context) {
	seller, ok := sellerFromForm(c)
	if !ok {
		c.String(http.StatusBadRequest, "invalid seller form")
		return
	}
	if _, err := h.sellers.Add(seller); err != nil {
		h.logger.Errorf("Add seller: %v", err)
		c.String(http.StatusInternalServerError, "could not save seller")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *SellerHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid seller id")
		return
	}
	seller, ok := sellerFromForm(c)
	if !ok {
		c.String(http.StatusBadRequest, "invalid seller form")
		return
	}
	seller.ID = id
	if err := h.sellers.Update(seller); err != nil {
		if errors.Is(err, p2p.ErrNotFound) {
			c.String(http.StatusNotFound, "seller not found")
			return
		}
		h.logger.Errorf("Update seller %d: %v", id, err)
		c.String(http.StatusInternalServerError, "could not save seller")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *SellerHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid seller id")
		return
	}
	if err := h.sellers.Remove(id); err != nil {
		if errors.Is(err, p2p.ErrNotFound) {
			c.String(http.StatusNotFound, "seller not found")
			return
		}
		h.logger.Errorf("Remove seller %d: %v", id, err)
		c.String(http.StatusInternalServerError, "could not remove seller")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func sellerFromForm(c *gin.Context) (p2p.Seller, bool) {
	rate, err := strconv.ParseFloat(c.PostForm("rate"), 64)
	name := c.PostForm("name")
	if err != nil || rate <= 0 || name == "" {
		return p2p.Seller{}, false
	}
	return p2p.Seller{
		Name:     name,
		Currency: c.PostForm("currency"),
		Rate:     rate,
		Limit:    c.PostForm("limit"),
		Contact:  c.PostForm("contact"),
	}, true
}

// AuthHandler implements the session login flow.
type AuthHandler struct {
	user string
	pass string
}

func NewAuthHandler(user, pass string) *AuthHandler {
	return &AuthHandler{user: user, pass: pass}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{})
}

func (h *AuthHandler) Login(c *gin.Context) {
	user := c.PostForm("user")
	pass := c.PostForm("pass")
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(h.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(h.pass)) == 1
	if !userOK || !passOK {
		c.HTML(http.StatusUnauthorized, "login", gin.H{"Error": "wrong credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user)
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "could not start session")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusSeeOther, "/login")
}

func requireLogin(c *gin.Context) {
	if sessions.Default(c).Get(sessionUserKey) == nil {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// AlertFeedHandler upgrades dashboard clients onto the fired-alert hub.
type AlertFeedHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

func NewAlertFeedHandler(hub *notify.Hub, logger *logrus.Logger) *AlertFeedHandler {
	return &AlertFeedHandler{
		hub: hub,
		// Sessions gate the route already; the origin check would
		// reject same-host requests behind a proxy.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:   logger,
	}
}

func (h *AlertFeedHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debugf("Websocket upgrade failed: %v", err)
		return
	}
	h.hub.Add(conn)

	// Drain control frames until the client goes away.
	go func() {
		defer func() {
			h.hub.Remove(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
