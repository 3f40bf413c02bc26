package lowres

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gosexy/to"
	"github.com/julienschmidt/httprouter"
	"github.com/twinj/uuid"
)

// HandleVerification checks a bearer token and reports whether the request
// may proceed.
type HandleVerification func(token string) bool

// Server is the remote command surface: the same conversions as the CLI,
// driven over HTTP and answered as JSON. Errors cross the boundary as plain
// strings, never as panics or status-only replies.
type Server struct {
	conf   *ServerConfig
	stats  *ConversionLog
	files  ImageSource
	s3     ImageSource
	verify HandleVerification
}

func NewServer(conf *ServerConfig) *Server {
	s := &Server{
		conf:  conf,
		stats: NewConversionLog(conf.Database),
		files: FileSource{},
	}
	if conf.AWSAccess != "" && conf.AWSSecret != "" {
		s.s3 = NewS3Source(conf.AWSAccess, conf.AWSSecret)
	}
	if conf.VerificationKey != "" {
		key, err := ioutil.ReadFile(conf.VerificationKey)
		if err != nil {
			log.Println("Error reading verification key:", err)
		} else {
			s.verify = verifyWithKey(key)
		}
	}
	return s
}

func verifyWithKey(key []byte) HandleVerification {
	return func(tokenString string) bool {
		_, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			log.Println("Token rejected:", err)
			return false
		}
		return true
	}
}

type processRequest struct {
	Input string `json:"input"`
	Options
}

type processResponse struct {
	Output  string `json:"output,omitempty"`
	DataURI string `json:"data_uri,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) Router() *httprouter.Router {
	r := httprouter.New()
	r.POST("/process", s.handleProcess)
	r.GET("/image", s.handleImage)
	r.GET("/alive", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(200)
	})
	return r
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.conf.HTTPPort)
	log.Println("Starting on port ", addr)
	return http.ListenAndServe(addr, &requestTimer{wraps: s.Router()})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, processResponse{Error: "verification failed"})
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, processResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Input == "" {
		writeJSON(w, http.StatusBadRequest, processResponse{Error: "input path cannot be an empty string"})
		return
	}
	applyQueryOverrides(&req.Options, r)

	source := s.files
	if IsS3Path(req.Input) {
		if s.s3 == nil {
			writeJSON(w, http.StatusBadRequest, processResponse{Error: "no S3 credentials configured"})
			return
		}
		source = s.s3
	}

	output, err := s.outputPath(req.Input)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, processResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	res, err := ProcessFile(source, req.Input, output, req.Options)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, processResponse{Error: err.Error()})
		return
	}

	dataURI, err := FileToDataURI(output)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, processResponse{Error: err.Error()})
		return
	}
	s.stats.Record(req.Input, time.Since(start), len(dataURI))

	writeJSON(w, http.StatusOK, processResponse{Output: res.Output, DataURI: dataURI})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, processResponse{Error: "verification failed"})
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, processResponse{Error: "path cannot be an empty string"})
		return
	}
	dataURI, err := FileToDataURI(path)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, processResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, processResponse{DataURI: dataURI})
}

func (s *Server) authorized(r *http.Request) bool {
	if s.verify == nil {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	return s.verify(token)
}

// outputPath places the converted file next to a local input, or in the
// scratch directory for remote inputs, named <stem>_lowres.png.
func (s *Server) outputPath(input string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := stem + "_lowres.png"
	if !IsS3Path(input) {
		return filepath.Join(filepath.Dir(input), name), nil
	}
	dir := s.conf.ScratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// applyQueryOverrides lets query parameters override fields of the JSON
// payload, mirroring the flags the CLI takes.
func applyQueryOverrides(opts *Options, r *http.Request) {
	q := r.URL.Query()
	if q.Get("w") != "" {
		w := int(to.Float64(q.Get("w")))
		opts.Width = &w
	}
	if q.Get("h") != "" {
		h := int(to.Float64(q.Get("h")))
		opts.Height = &h
	}
	if q.Get("block") != "" {
		b := int(to.Float64(q.Get("block")))
		opts.Block = &b
	}
	if q.Get("dpi") != "" {
		opts.DPI = int(to.Float64(q.Get("dpi")))
	}
	if q.Get("mode") != "" {
		opts.Mode = ResizeMode(q.Get("mode"))
	}
	if q.Get("filter") != "" {
		opts.Filter = Resample(q.Get("filter"))
	}
}

func writeJSON(w http.ResponseWriter, status int, body processResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error writing result %+v", err)
	}
}

// requestTimer wraps the router to log each request with a generated id and
// how long it took.
type requestTimer struct {
	wraps http.Handler
}

func (rt *requestTimer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewV4()
	start := time.Now()
	rt.wraps.ServeHTTP(w, r)
	log.Println(id, r.Method, r.URL.Path, time.Since(start))
}
