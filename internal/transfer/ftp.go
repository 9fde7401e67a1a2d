package transfer

import (
	"context"
	"io"
	"time"

	"log/slog"

	"github.com/jlaffaye/ftp"

	"github.com/calefrey/telegram-bot/internal/config"
	"github.com/calefrey/telegram-bot/internal/logger"
)

// FTPClient stores files on an FTP server, dialing a fresh connection per
// call so a wedged transfer never poisons later ones.
type FTPClient struct {
	addr     string
	user     string
	password string
	timeout  time.Duration
}

// NewFTPClient builds an FTP transfer client from configuration.
func NewFTPClient(cfg config.FTPConfig) *FTPClient {
	return &FTPClient{
		addr:     cfg.Addr,
		user:     cfg.User,
		password: cfg.Password,
		timeout:  cfg.Timeout,
	}
}

// Store uploads the blob under the given filename. Any connection, login,
// or protocol error is returned as a *transfer.Error whose Reason is the
// raw failure text.
func (c *FTPClient) Store(ctx context.Context, filename string, r io.Reader) error {
	start := time.Now()

	conn, err := ftp.Dial(c.addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(c.timeout),
	)
	if err != nil {
		logger.FTP.Error("dial failed",
			slog.String("event", "ftp.dial"),
			slog.String("remote", c.addr),
			slog.String("err", err.Error()),
		)
		return wrap(err)
	}
	defer func() {
		if quitErr := conn.Quit(); quitErr != nil {
			logger.FTP.Warn("quit failed",
				slog.String("event", "ftp.quit"),
				slog.String("remote", c.addr),
				slog.String("err", quitErr.Error()),
			)
		}
	}()

	if err := conn.Login(c.user, c.password); err != nil {
		logger.FTP.Error("login failed",
			slog.String("event", "ftp.login"),
			slog.String("remote", c.addr),
			slog.String("err", err.Error()),
		)
		return wrap(err)
	}

	if err := conn.Stor(filename, r); err != nil {
		logger.FTP.Error("stor failed",
			slog.String("event", "ftp.stor"),
			slog.String("remote", c.addr),
			slog.String("filename", filename),
			slog.String("err", err.Error()),
		)
		return wrap(err)
	}

	logger.FTP.Info("stored",
		slog.String("event", "ftp.stor"),
		slog.String("status", "ok"),
		slog.String("remote", c.addr),
		slog.String("filename", filename),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
