package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sweeezy/backend/internal/content"
	"github.com/sweeezy/backend/internal/model"
)

// ContentHandler serves the editorial entities: guides, checklists,
// templates, glossary terms and translations.
type ContentHandler struct {
	guides       *content.GuideService
	checklists   *content.ChecklistService
	templates    *content.TemplateService
	glossary     *content.GlossaryService
	translations *content.TranslationService
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(
	guides *content.GuideService,
	checklists *content.ChecklistService,
	templates *content.TemplateService,
	glossary *content.GlossaryService,
	translations *content.TranslationService,
) *ContentHandler {
	return &ContentHandler{
		guides:       guides,
		checklists:   checklists,
		templates:    templates,
		glossary:     glossary,
		translations: translations,
	}
}

// --- guides ---

type guideResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Category    string `json:"category,omitempty"`
	IsPublished bool   `json:"is_published"`
	Version     int    `json:"version"`
	ImageURL    string `json:"image_url,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

func toGuideResponse(g *model.Guide) guideResponse {
	return guideResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		Content:     g.Content,
		Category:    g.Category,
		IsPublished: g.IsPublished,
		Version:     g.Version,
		ImageURL:    g.ImageURL,
		UpdatedAt:   g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type guideRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	IsPublished *bool  `json:"is_published"`
	ImageURL    string `json:"image_url"`
}

func (req guideRequest) toInput() content.GuideInput {
	return content.GuideInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		IsPublished: req.IsPublished,
		ImageURL:    req.ImageURL,
	}
}

// ListGuides handles GET /api/guides.
func (h *ContentHandler) ListGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := h.guides.List(r.Context(), r.URL.Query().Get("category"), false)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	items := make([]guideResponse, 0, len(guides))
	for _, g := range guides {
		items = append(items, toGuideResponse(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// GetGuideBySlug handles GET /api/guides/{slug}.
func (h *ContentHandler) GetGuideBySlug(w http.ResponseWriter, r *http.Request) {
	guide, err := h.guides.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGuideResponse(guide))
}

// CreateGuide handles POST /api/admin/guides.
func (h *ContentHandler) CreateGuide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req guideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	guide, err := h.guides.Create(r.Context(), actor, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGuideResponse(guide))
}

// UpdateGuide handles PUT /api/admin/guides/{id}.
func (h *ContentHandler) UpdateGuide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req guideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	guide, err := h.guides.Update(r.Context(), actor, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGuideResponse(guide))
}

// DeleteGuide handles DELETE /api/admin/guides/{id}.
func (h *ContentHandler) DeleteGuide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.guides.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- checklists ---

type checklistResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Items       []model.ChecklistItem `json:"items"`
	IsPublished bool                  `json:"is_published"`
}

func toChecklistResponse(c *model.Checklist) checklistResponse {
	items := c.Items
	if items == nil {
		items = []model.ChecklistItem{}
	}
	return checklistResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Items:       items,
		IsPublished: c.IsPublished,
	}
}

type checklistRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Items       []model.ChecklistItem `json:"items"`
	IsPublished *bool                 `json:"is_published"`
}

// ListChecklists handles GET /api/checklists.
func (h *ContentHandler) ListChecklists(w http.ResponseWriter, r *http.Request) {
	checklists, err := h.checklists.List(r.Context(), false)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	items := make([]checklistResponse, 0, len(checklists))
	for _, c := range checklists {
		items = append(items, toChecklistResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// GetChecklist handles GET /api/checklists/{id}.
func (h *ContentHandler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := h.checklists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChecklistResponse(checklist))
}

// CreateChecklist handles POST /api/admin/checklists.
func (h *ContentHandler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req checklistRequest
	if !decodeBody(w, r, &req) {
		return
	}
	checklist, err := h.checklists.Create(r.Context(), actor, content.ChecklistInput{
		Title:       req.Title,
		Description: req.Description,
		Items:       req.Items,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChecklistResponse(checklist))
}

// UpdateChecklist handles PUT /api/admin/checklists/{id}.
func (h *ContentHandler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req checklistRequest
	if !decodeBody(w, r, &req) {
		return
	}
	checklist, err := h.checklists.Update(r.Context(), actor, chi.URLParam(r, "id"), content.ChecklistInput{
		Title:       req.Title,
		Description: req.Description,
		Items:       req.Items,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChecklistResponse(checklist))
}

// DeleteChecklist handles DELETE /api/admin/checklists/{id}.
func (h *ContentHandler) DeleteChecklist(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.checklists.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- templates ---

type templateResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
	Status   string `json:"status"`
}

func toTemplateResponse(t *model.Template) templateResponse {
	return templateResponse{
		ID:       t.ID,
		Name:     t.Name,
		Category: t.Category,
		Content:  t.Content,
		Status:   t.Status,
	}
}

type templateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Status   string `json:"status"`
}

// ListTemplates handles GET /api/templates.
func (h *ContentHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context(), r.URL.Query().Get("category"), false)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	items := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, toTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// GetTemplate handles GET /api/templates/{id}.
func (h *ContentHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.templates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(template))
}

// CreateTemplate handles POST /api/admin/templates.
func (h *ContentHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	template, err := h.templates.Create(r.Context(), actor, content.TemplateInput{
		Name:     req.Name,
		Category: req.Category,
		Content:  req.Content,
		Status:   req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateResponse(template))
}

// UpdateTemplate handles PUT /api/admin/templates/{id}.
func (h *ContentHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	template, err := h.templates.Update(r.Context(), actor, chi.URLParam(r, "id"), content.TemplateInput{
		Name:     req.Name,
		Category: req.Category,
		Content:  req.Content,
		Status:   req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(template))
}

// DeleteTemplate handles DELETE /api/admin/templates/{id}.
func (h *ContentHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.templates.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- glossary ---

type glossaryResponse struct {
	ID          string `json:"id"`
	Term        string `json:"term"`
	UK          string `json:"uk,omitempty"`
	RU          string `json:"ru,omitempty"`
	EN          string `json:"en,omitempty"`
	Description string `json:"description,omitempty"`
}

func toGlossaryResponse(t *model.GlossaryTerm) glossaryResponse {
	return glossaryResponse{
		ID:          t.ID,
		Term:        t.Term,
		UK:          t.UK,
		RU:          t.RU,
		EN:          t.EN,
		Description: t.Description,
	}
}

type glossaryRequest struct {
	Term        string `json:"term"`
	UK          string `json:"uk"`
	RU          string `json:"ru"`
	EN          string `json:"en"`
	Description string `json:"description"`
}

func (req glossaryRequest) toInput() content.GlossaryInput {
	return content.GlossaryInput{
		Term:        req.Term,
		UK:          req.UK,
		RU:          req.RU,
		EN:          req.EN,
		Description: req.Description,
	}
}

// ListGlossary handles GET /api/glossary.
func (h *ContentHandler) ListGlossary(w http.ResponseWriter, r *http.Request) {
	terms, err := h.glossary.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	items := make([]glossaryResponse, 0, len(terms))
	for _, t := range terms {
		items = append(items, toGlossaryResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// CreateGlossaryTerm handles POST /api/admin/glossary.
func (h *ContentHandler) CreateGlossaryTerm(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req glossaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	term, err := h.glossary.Create(r.Context(), actor, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGlossaryResponse(term))
}

// UpdateGlossaryTerm handles PUT /api/admin/glossary/{id}.
func (h *ContentHandler) UpdateGlossaryTerm(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req glossaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	term, err := h.glossary.Update(r.Context(), actor, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGlossaryResponse(term))
}

// DeleteGlossaryTerm handles DELETE /api/admin/glossary/{id}.
func (h *ContentHandler) DeleteGlossaryTerm(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.glossary.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- translations ---

type translationResponse struct {
	ID          string `json:"id"`
	Entity      string `json:"entity"`
	EntityID    string `json:"entity_id"`
	Language    string `json:"language"`
	Status      string `json:"status"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	AuthorEmail string `json:"author_email"`
}

func toTranslationResponse(tr *model.Translation) translationResponse {
	return translationResponse{
		ID:          tr.ID,
		Entity:      tr.Entity,
		EntityID:    tr.EntityID,
		Language:    tr.Language,
		Status:      string(tr.Status),
		Title:       tr.Title,
		Description: tr.Description,
		Content:     tr.Content,
		AuthorEmail: tr.AuthorEmail,
	}
}

type translationRequest struct {
	Entity      string `json:"entity"`
	EntityID    string `json:"entity_id"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// SubmitTranslation handles POST /api/translations.
func (h *ContentHandler) SubmitTranslation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req translationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tr, err := h.translations.Submit(r.Context(), actor, content.TranslationInput{
		Entity:      req.Entity,
		EntityID:    req.EntityID,
		Language:    req.Language,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTranslationResponse(tr))
}

// ListTranslations handles GET /api/translations?entity=&entity_id= and the
// pending review queue when no entity filter is given.
func (h *ContentHandler) ListTranslations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		translations []*model.Translation
		err          error
	)
	if entity := q.Get("entity"); entity != "" {
		translations, err = h.translations.ListByEntity(r.Context(), entity, q.Get("entity_id"))
	} else {
		translations, err = h.translations.ListPending(r.Context())
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]translationResponse, 0, len(translations))
	for _, tr := range translations {
		items = append(items, toTranslationResponse(tr))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

type reviewRequest struct {
	Approve bool `json:"approve"`
}

// ReviewTranslation handles POST /api/translations/{id}/review.
func (h *ContentHandler) ReviewTranslation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tr, err := h.translations.Review(r.Context(), actor, chi.URLParam(r, "id"), req.Approve)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTranslationResponse(tr))
}

// DeleteTranslation handles DELETE /api/translations/{id}.
func (h *ContentHandler) DeleteTranslation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.translations.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
