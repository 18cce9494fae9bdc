package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/inkfold/inkfold/internal/cache"
	"github.com/inkfold/inkfold/internal/config"
	"github.com/inkfold/inkfold/internal/images"
	"github.com/inkfold/inkfold/internal/logger"
	"github.com/inkfold/inkfold/internal/model"
	"github.com/inkfold/inkfold/internal/pagination"
	"github.com/inkfold/inkfold/internal/render"
	"github.com/inkfold/inkfold/internal/repository"
	"github.com/inkfold/inkfold/internal/routes"
	"github.com/inkfold/inkfold/internal/util"
	"github.com/inkfold/inkfold/internal/util/compression"
)

//go:embed static/* templates/*
var content embed.FS

var postRepository repository.PostRepository
var paginator *pagination.Paginator

var mainLogger zerolog.Logger

func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional; environment may come from the host.
	}

	bootstrap := logger.New("info")
	config.SetLogger(bootstrap)

	cfgPath := os.Getenv("INKFOLD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	if err := config.LoadConfig(cfgPath); err != nil {
		bootstrap.Fatal().Err(err).Str("path", cfgPath).Msg("Error loading config")
	}

	mainLogger = logger.New(config.AppConfig.Logging.Level)
	config.SetLogger(mainLogger)
	repository.SetLogger(mainLogger)
	render.SetLogger(mainLogger)

	resolver := images.NewResolver(config.AppConfig.Images.FallbackMode, config.AppConfig.Images.Palette)

	switch config.AppConfig.Content.Source {
	case "s3":
		repo, err := repository.NewS3PostRepository(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			config.AppConfig.Content.S3,
			resolver,
		)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Error initializing S3 post repository")
		}
		postRepository = repo
	default:
		postRepository = repository.NewFSPostRepository(config.AppConfig.Content.Dir, resolver)
	}
	paginator = pagination.New(postRepository)

	// Calculate the hash of static content
	static, _ := fs.Sub(content, config.StaticLocalDir)
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if !d.IsDir() {
			cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash([]byte(path)))
		}
		return nil
	})

	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.Handle(routes.StaticPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	mux.Handle(routes.ImagesPath, http.StripPrefix(config.ImagesUrlPath, http.FileServer(http.Dir(config.AppConfig.Content.ImagesDir))))

	mux.HandleFunc(routes.APIPosts, serveAPIPosts)
	mux.HandleFunc(routes.APICacheInvalidate, serveCacheInvalidate)
	mux.HandleFunc(routes.PostsPath, servePost)
	mux.HandleFunc(routes.RootPath, serveIndex)

	go warmRenderCache()

	handler := withRequestID(secureHeaders(cacheIt(compressIt(mux.ServeHTTP))))

	addr := config.AppConfig.Server.Host + ":" + config.AppConfig.Server.Port
	mainLogger.Info().Str("addr", addr).Msg("Listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		mainLogger.Fatal().Err(err).Msg("Server stopped")
	}
}

// warmRenderCache pre-renders every listed post body so the first single-post
// request does not pay the render cost.
func warmRenderCache() {
	for _, post := range postRepository.ListAll(context.Background()) {
		render.WarmCache([]byte(post.Content), post.MDContentHash, config.AppConfig.Content.SyntaxStyle)
	}
}

// pageParam reads the page query parameter, defaulting to 1 when absent or
// non-numeric. Out-of-range values pass through untouched; the paginator
// answers those with an empty page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routes.RootPath {
		http.NotFound(w, r)
		return
	}

	page := paginator.Page(r.Context(), pageParam(r))

	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplateIndex)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		*model.PageData
		Pagination *model.PaginatedPosts
		PostsPath  string
		PrevPage   int
		NextPage   int
	}{
		PageData:   model.NewPageData(r),
		Pagination: page,
		PostsPath:  config.PostsUrlPath,
		PrevPage:   page.CurrentPage - 1,
		NextPage:   page.CurrentPage + 1,
	}

	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func servePost(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, routes.PostsPath)
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	post, err := postRepository.GetBySlug(r.Context(), model.Slug(slug))
	if err != nil {
		servePostNotFound(w, r)
		return
	}

	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplatePost)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		*model.PageData
		Post      *model.Post
		SyntaxCSS template.CSS
	}{
		PageData:  model.NewPageData(r),
		Post:      post,
		SyntaxCSS: render.GenerateSyntaxCSS(config.AppConfig.Content.SyntaxStyle),
	}

	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func servePostNotFound(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplateNotFound)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusNotFound)
	tmpl.ExecuteTemplate(w, config.TemplateLayout, model.NewPageData(r))
}

func serveAPIPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	page := paginator.Page(r.Context(), pageParam(r))

	w.Header().Set(config.HCType, config.CTypeJSON)
	if err := json.NewEncoder(w).Encode(page); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error encoding paginated posts")
	}
}

var (
	invalidateMu   sync.Mutex
	lastInvalidate time.Time
)

const invalidateMinInterval = time.Second

// serveCacheInvalidate drops the memoized post listing and page cache so the
// next request re-reads the content source. Guarded by the admin token and
// rate limited to one call per second.
func serveCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	token := config.AppConfig.Admin.Token
	if token == "" {
		// Endpoint disabled without a configured token.
		http.NotFound(w, r)
		return
	}
	if r.Header.Get(config.HAdminToken) != token {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	invalidateMu.Lock()
	if time.Since(lastInvalidate) < invalidateMinInterval {
		invalidateMu.Unlock()
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}
	lastInvalidate = time.Now()
	invalidateMu.Unlock()

	paginator.Invalidate()
	zerolog.Ctx(r.Context()).Info().Msg("Cache invalidated via API")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("cache invalidated"))
}

func withRequestID(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(config.HRequestID, id)

		l := mainLogger.With().Str("request_id", id).Logger()
		h(w, r.WithContext(l.WithContext(r.Context())))
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		h(w, r)
	}
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

type bufferedResponseWriter struct {
	header http.Header
	buf    bytes.Buffer
	status int
}

func (w *bufferedResponseWriter) Header() http.Header {
	return w.header
}

func (w *bufferedResponseWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

// compressIt negotiates Content-Encoding and compresses buffered responses.
// zstd wins over gzip when the client accepts both.
func compressIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var compressor compression.Compressor
		var encoding string

		accept := r.Header.Get(config.HAcceptEncoding)
		switch {
		case strings.Contains(accept, "zstd"):
			compressor, encoding = compression.ZstdCompressor{}, "zstd"
		case strings.Contains(accept, "gzip"):
			compressor, encoding = compression.GzipCompressor{}, "gzip"
		default:
			h(w, r)
			return
		}

		bw := &bufferedResponseWriter{header: http.Header{}, status: http.StatusOK}
		h(bw, r)

		body := bw.buf.Bytes()
		if compressed, err := compressor.Compress(body); err == nil && len(compressed) < len(body) {
			bw.header.Set(config.HContentEncoding, encoding)
			bw.header.Add("Vary", config.HAcceptEncoding)
			body = compressed
		}

		for key, values := range bw.header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(bw.status)
		w.Write(body)
	}
}
