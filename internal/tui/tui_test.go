package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/sadopc/cantinho/internal/garden"
	"github.com/sadopc/cantinho/internal/plant"
	"github.com/sadopc/cantinho/internal/store"
)

var testNow = time.Date(2024, 7, 10, 10, 0, 0, 0, time.UTC)

func newTestGarden(t *testing.T) *garden.Garden {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	n := 0
	g, err := garden.New(s, nil,
		garden.WithClock(func() time.Time { return testNow }),
		garden.WithIDGenerator(func() string { n++; return fmt.Sprintf("p%d", n) }),
	)
	if err != nil {
		t.Fatalf("new garden: %v", err)
	}
	return g
}

func addPlant(t *testing.T, g *garden.Garden, name string, freq int) plant.Plant {
	t.Helper()
	p, err := g.Plants.Add(plant.NewPlant{Name: name, WateringFrequencyDays: freq})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return p
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// containsString checks if s contains substr, ignoring ANSI escape codes.
func containsString(s, substr string) bool {
	return len(s) > 0 && len(substr) > 0 && strings.Contains(s, substr)
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDaysAgo(t *testing.T) {
	tests := []struct {
		days int
		ok   bool
		want string
	}{
		{0, false, "Nunca regada"},
		{0, true, "Hoje"},
		{1, true, "Ontem"},
		{4, true, "Há 4 dias"},
	}
	for _, tt := range tests {
		got := formatDaysAgo(tt.days, tt.ok)
		if got != tt.want {
			t.Errorf("formatDaysAgo(%d, %v) = %q, want %q", tt.days, tt.ok, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Jiboia", 10, "Jiboia"},
		{"Costela de Adão", 8, "Costela…"},
		{"Adão", 4, "Adão"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormValidators(t *testing.T) {
	if validateName("  ") == nil {
		t.Error("blank name should fail")
	}
	if validateName("Jiboia") != nil {
		t.Error("name should pass")
	}
	for _, bad := range []string{"", "0", "-2", "dois"} {
		if validateFrequency(bad) == nil {
			t.Errorf("frequency %q should fail", bad)
		}
	}
	if validateFrequency(" 3 ") != nil {
		t.Error("frequency 3 should pass")
	}
	if validateSchedule("0 9 * * *") != nil {
		t.Error("daily schedule should pass")
	}
	if validateSchedule("toda manhã") == nil {
		t.Error("free text schedule should fail")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	if viewNames[viewPlants] != "Plantas" || viewNames[viewSettings] != "Ajustes" {
		t.Fatalf("unexpected view names: %v", viewNames)
	}
}

// ============================================================
// Plants view
// ============================================================

func TestPlantsRefreshAndRender(t *testing.T) {
	g := newTestGarden(t)
	addPlant(t, g, "Jiboia", 3)
	addPlant(t, g, "Samambaia", 2)

	m := newPlantsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	if len(m.plants) != 2 {
		t.Fatalf("expected 2 plants, got %d", len(m.plants))
	}
	if m.stats.Total != 2 || m.stats.NeedingWater != 2 {
		t.Fatalf("unexpected stats: %+v", m.stats)
	}
	out := m.view()
	for _, want := range []string{"Jiboia", "Samambaia", "Nunca regada", "Precisa de água"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlantsEmptyHint(t *testing.T) {
	g := newTestGarden(t)
	m := newPlantsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	if !containsString(m.view(), "Pressione n para adicionar") {
		t.Fatal("empty garden should show the add hint")
	}
}

func TestPlantsWaterKey(t *testing.T) {
	g := newTestGarden(t)
	p := addPlant(t, g, "Jiboia", 3)

	m := newPlantsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	m, cmd := m.update(runeKey("w"))
	if cmd == nil {
		t.Fatal("w should return a command")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || msg.isError {
		t.Fatalf("expected success status, got %#v", msg)
	}

	got, _ := g.Plants.Get(p.ID)
	if len(got.WateringHistory) != 1 {
		t.Fatalf("expected 1 watering, got %d", len(got.WateringHistory))
	}
}

func TestPlantsFilterCycle(t *testing.T) {
	g := newTestGarden(t)
	watered := addPlant(t, g, "Jiboia", 3)
	addPlant(t, g, "Cacto", 10)
	if _, err := g.Plants.Water(watered.ID); err != nil {
		t.Fatal(err)
	}

	m := newPlantsModel(g)
	m.setSize(120, 40)

	m, cmd := m.update(runeKey("f"))
	if m.filter() != plant.FilterNeedsWater {
		t.Fatalf("expected needs-water filter, got %q", m.filter())
	}
	m, _ = m.update(cmd())
	if len(m.plants) != 1 || m.plants[0].Name != "Cacto" {
		t.Fatalf("needs-water should list only Cacto, got %v", m.plants)
	}

	m, cmd = m.update(runeKey("f"))
	m, _ = m.update(cmd())
	if len(m.plants) != 1 || m.plants[0].Name != "Jiboia" {
		t.Fatalf("watered should list only Jiboia, got %v", m.plants)
	}

	m, _ = m.update(runeKey("f"))
	if m.filter() != plant.FilterAll {
		t.Fatal("filter should wrap back to all")
	}
}

func TestPlantsCursorBounds(t *testing.T) {
	g := newTestGarden(t)
	addPlant(t, g, "A", 1)
	addPlant(t, g, "B", 1)

	m := newPlantsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatal("cursor should not go above 0")
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor should stop at last row, got %d", m.cursor)
	}
}

func TestPlantsDetail(t *testing.T) {
	g := newTestGarden(t)
	p := addPlant(t, g, "Jiboia", 3)
	if _, err := g.Plants.Water(p.ID); err != nil {
		t.Fatal(err)
	}

	m := newPlantsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Fatal("enter should open the detail panel")
	}
	out := m.view()
	if !containsString(out, "Histórico de regas") || !containsString(out, plant.ManualNote) {
		t.Fatal("detail should list the watering history")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail {
		t.Fatal("esc should close the detail panel")
	}
}

func TestPlantsAddCommand(t *testing.T) {
	g := newTestGarden(t)
	m := newPlantsModel(g)

	msg := m.addPlant(plant.NewPlant{Name: "Jiboia", WateringFrequencyDays: 3}, "")().(statusMsg)
	if msg.isError {
		t.Fatalf("unexpected error: %s", msg.text)
	}
	msg = m.addPlant(plant.NewPlant{Name: "Hera", WateringFrequencyDays: 4}, "https://example.com/hera.jpg")().(statusMsg)
	if msg.isError {
		t.Fatalf("unexpected error: %s", msg.text)
	}
	msg = m.addPlant(plant.NewPlant{Name: " ", WateringFrequencyDays: 3}, "")().(statusMsg)
	if !msg.isError {
		t.Fatal("blank name should surface an error")
	}

	list := g.Plants.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 plants, got %d", len(list))
	}
	if list[1].ImageRef != "https://example.com/hera.jpg" {
		t.Fatalf("remote image should be kept, got %q", list[1].ImageRef)
	}
}

func TestPlantsAddFormPrefill(t *testing.T) {
	g := newTestGarden(t)
	if err := g.SetDefaultFrequency(5); err != nil {
		t.Fatal(err)
	}
	m := newPlantsModel(g)
	m.setSize(120, 40)

	m, _ = m.update(runeKey("n"))
	if !m.formActive || m.formType != "add" {
		t.Fatal("n should open the add form")
	}
	if *m.formFrequency != "5" {
		t.Fatalf("frequency should be prefilled, got %q", *m.formFrequency)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should cancel the form")
	}
}

func TestPlantsDeleteCommand(t *testing.T) {
	g := newTestGarden(t)
	p := addPlant(t, g, "Jiboia", 3)
	m := newPlantsModel(g)

	msg := m.deletePlant(p.ID, false)().(statusMsg)
	if msg.text != "Remoção cancelada" || g.Plants.Len() != 1 {
		t.Fatal("declined delete should keep the plant")
	}
	msg = m.deletePlant(p.ID, true)().(statusMsg)
	if msg.isError || g.Plants.Len() != 0 {
		t.Fatal("confirmed delete should remove the plant")
	}
	msg = m.deletePlant(p.ID, true)().(statusMsg)
	if !msg.isError {
		t.Fatal("deleting a missing plant should surface an error")
	}
}

func TestPlantsDeleteFormUsesPrompt(t *testing.T) {
	g := newTestGarden(t)
	addPlant(t, g, "Jiboia", 3)
	m := newPlantsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	m, _ = m.update(runeKey("d"))
	if !m.formActive || m.formType != "delete" || m.deletingID != "p1" {
		t.Fatal("d should open the delete confirmation for the selected plant")
	}
	if !containsString(m.view(), "Remover planta") {
		t.Fatal("delete form should be rendered")
	}
}

// ============================================================
// Guide view
// ============================================================

func TestGuideFilterAndFavorite(t *testing.T) {
	g := newTestGarden(t)
	m := newGuideModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	if len(m.items) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(m.items))
	}

	_, cmd := m.update(runeKey("s"))
	if msg := cmd().(statusMsg); msg.isError {
		t.Fatalf("toggle failed: %s", msg.text)
	}
	if !g.Guide.IsFavorite(m.items[0].ID) {
		t.Fatal("first entry should be a favorite")
	}

	m, cmd = m.update(runeKey("f"))
	m, _ = m.update(cmd())
	if len(m.items) != 1 || !m.items[0].Favorite {
		t.Fatalf("favorites filter should list one entry, got %d", len(m.items))
	}

	m, cmd = m.update(runeKey("f"))
	m, _ = m.update(cmd())
	for _, it := range m.items {
		if it.Category != guideFilters[2] {
			t.Fatalf("category filter leaked %q", it.Category)
		}
	}
}

func TestGuideSearch(t *testing.T) {
	g := newTestGarden(t)
	m := newGuideModel(g)
	m.setSize(120, 40)

	m, _ = m.update(runeKey("/"))
	if !m.searching {
		t.Fatal("/ should start searching")
	}
	for _, r := range "echev" {
		m, _ = m.update(runeKey(string(r)))
	}
	m, _ = m.update(m.refresh()())
	if len(m.items) != 1 || m.items[0].Name != "Echeveria" {
		t.Fatalf("search should find Echeveria, got %v", m.items)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching || m.search.Value() != "" {
		t.Fatal("esc should clear the search")
	}
}

func TestGuideDetailRecordsView(t *testing.T) {
	g := newTestGarden(t)
	m := newGuideModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.detail == nil {
		t.Fatal("enter should open the entry")
	}
	if g.Guide.ViewedCount() != 1 {
		t.Fatalf("expected 1 viewed entry, got %d", g.Guide.ViewedCount())
	}
	p, _ := g.Achievements.Progress(achievement.Explorer)
	if p.Current != 1 {
		t.Fatalf("explorer progress should be 1, got %d", p.Current)
	}
	if !containsString(m.view(), m.detail.ScientificName) {
		t.Fatal("detail should show the scientific name")
	}
}

// ============================================================
// Achievements view
// ============================================================

func TestAchievementsView(t *testing.T) {
	g := newTestGarden(t)
	addPlant(t, g, "Jiboia", 3)

	m := newAchievementsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	if m.summary.Unlocked != 1 || m.summary.Total != 12 {
		t.Fatalf("unexpected summary: %+v", m.summary)
	}
	out := m.view()
	for _, want := range []string{"Primeiro Plantio", "1/12", "desbloqueada em", "0/30 dias"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

// ============================================================
// History view
// ============================================================

func TestDateRange(t *testing.T) {
	from, to := dateRange(testNow, 0)
	if !to.Equal(time.Date(2024, 7, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", to)
	}
	if !from.Equal(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", from)
	}
	from, _ = dateRange(testNow, 1)
	if !from.Equal(time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected previous week start %v", from)
	}
}

func TestSummarize(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 7, d, h, 0, 0, 0, time.UTC) }
	plants := []plant.Plant{
		{Name: "Jiboia", WateringHistory: []plant.Watering{{At: day(8, 9)}, {At: day(8, 18)}, {At: day(10, 8)}}},
		{Name: "Cacto", WateringHistory: []plant.Watering{{At: day(1, 9)}, {At: day(8, 7)}}},
	}
	from, to := dateRange(testNow, 0)
	rows := summarize(plants, from, to)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Plant != "Cacto" || rows[0].Count != 1 {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].Plant != "Jiboia" || rows[1].Count != 2 {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
	if rows[2].Plant != "Jiboia" || !rows[2].Day.Equal(day(10, 0)) {
		t.Fatalf("unexpected third row %+v", rows[2])
	}
	if rows[0].Color == rows[1].Color {
		t.Fatal("plants should get distinct colors")
	}
}

func TestHistoryNavigation(t *testing.T) {
	g := newTestGarden(t)
	p := addPlant(t, g, "Jiboia", 3)
	if _, err := g.Plants.Water(p.ID); err != nil {
		t.Fatal(err)
	}

	m := newHistoryModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())
	if len(m.rows) != 1 || m.streak != 1 {
		t.Fatalf("expected one row and a 1-day streak, got %d rows, streak %d", len(m.rows), m.streak)
	}
	if !containsString(m.view(), "Jiboia") {
		t.Fatal("history should list the plant")
	}

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.update(cmd())
	if m.offset != 1 || len(m.rows) != 0 {
		t.Fatal("previous week should be empty")
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.offset != 0 {
		t.Fatal("offset should not go past the current week")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsSave(t *testing.T) {
	g := newTestGarden(t)
	m := newSettingsModel(g)
	*m.defaultFrequency = "4"
	*m.reminderSchedule = "30 8 * * *"

	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}
	if g.DefaultFrequency() != 4 {
		t.Fatalf("expected default frequency 4, got %d", g.DefaultFrequency())
	}
	if g.ReminderSchedule("") != "30 8 * * *" {
		t.Fatalf("unexpected schedule %q", g.ReminderSchedule(""))
	}

	*m.defaultFrequency = "zero"
	if err := m.saveSettings(); err == nil {
		t.Fatal("invalid frequency should fail")
	}
}

func TestSettingsView(t *testing.T) {
	g := newTestGarden(t)
	m := newSettingsModel(g)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	out := m.view()
	for _, want := range []string{"Frequência padrão de rega", "7 dia(s)", "0 9 * * *"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFormatSettingValue(t *testing.T) {
	if got := formatSettingValue(store.SettingDefaultFrequency, "3"); got != "3 dia(s)" {
		t.Fatalf("got %q", got)
	}
	if got := formatSettingValue(store.SettingReminderSchedule, "0 9 * * *"); got != "0 9 * * *" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(newTestGarden(t))

	if app.activeView != viewPlants {
		t.Fatal("default view should be plants")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := NewApp(newTestGarden(t))
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	for i := range viewNames {
		app.activeView = viewState(i)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", i)
		}
	}
}

func TestAppTabSwitching(t *testing.T) {
	app := NewApp(newTestGarden(t))

	model, cmd := app.Update(runeKey("3"))
	app = model.(App)
	if app.activeView != viewAchievements || cmd == nil {
		t.Fatal("3 should switch to achievements and refresh it")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewHistory {
		t.Fatal("tab should move to the next view")
	}

	app.activeView = viewSettings
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewPlants {
		t.Fatal("tab should wrap around")
	}
}

func TestAppSearchCapturesKeys(t *testing.T) {
	app := NewApp(newTestGarden(t))
	app.activeView = viewGuide

	model, _ := app.Update(runeKey("/"))
	app = model.(App)
	if !app.isFormActive() {
		t.Fatal("search should capture input")
	}

	model, _ = app.Update(runeKey("q"))
	app = model.(App)
	if app.guide.search.Value() != "q" {
		t.Fatalf("q should be typed into the search, got %q", app.guide.search.Value())
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := NewApp(newTestGarden(t))
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !containsString(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestGarden(t))
	if out := app.View(); out != "Carregando..." {
		t.Fatalf("expected loading text, got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := NewApp(newTestGarden(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)
	if !containsString(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppUnlockNotification(t *testing.T) {
	g := newTestGarden(t)
	app := NewApp(g)
	addPlant(t, g, "Jiboia", 3)

	msg, ok := waitForUnlock(app.unlocks)().(unlockMsg)
	if !ok || msg.def.ID != achievement.FirstPlant {
		t.Fatalf("expected first-plant unlock, got %#v", msg)
	}

	model, cmd := app.Update(msg)
	app = model.(App)
	if !containsString(app.status, "Primeiro Plantio") {
		t.Fatalf("status should announce the unlock, got %q", app.status)
	}
	if cmd == nil {
		t.Fatal("unlock should keep listening")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapFullHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}
