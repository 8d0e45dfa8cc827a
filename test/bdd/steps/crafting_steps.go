package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/colony"
	appCrafting "github.com/andrescamacho/colonycraft-go/internal/application/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/application/events"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// craftingContext holds state for crafting core scenarios
type craftingContext struct {
	bus    *events.NotificationBus
	clock  *shared.ManualClock
	colony *colony.Colony
	system *appCrafting.CraftingSystem

	queued        []crafting.TaskID
	claimed       map[string]crafting.TaskID
	registered    bool
	produced      *crafting.Item
	checkOK       bool
	checkMissing  []crafting.ResourceAmount
	consumed      bool
	cancellations int
	resumes       int
}

func (cc *craftingContext) reset() {
	if cc.system != nil {
		cc.system.Close()
	}
	*cc = craftingContext{claimed: make(map[string]crafting.TaskID)}
}

func InitializeCraftingScenario(ctx *godog.ScenarioContext) {
	cc := &craftingContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return c, nil
	})

	// Setup
	ctx.Step(`^a colony crafting system$`, cc.aColonyCraftingSystem)
	ctx.Step(`^the recipe "([^"]*)" needs "([^"]*)" and makes an? ([A-Z]+) "([^"]*)"$`, cc.theRecipeNeedsAndMakes)
	ctx.Step(`^the recipes:$`, cc.theRecipes)
	ctx.Step(`^colonist "([^"]*)" holds nothing$`, cc.colonistHoldsNothing)
	ctx.Step(`^colonist "([^"]*)" holds "([^"]*)"$`, cc.colonistHolds)
	ctx.Step(`^a built storehouse "([^"]*)" holds nothing$`, cc.aBuiltStorehouseHoldsNothing)
	ctx.Step(`^a built storehouse "([^"]*)" holds "([^"]*)"$`, cc.aBuiltStorehouseHolds)
	ctx.Step(`^an unbuilt storehouse "([^"]*)" holds "([^"]*)"$`, cc.anUnbuiltStorehouseHolds)

	// Registry
	ctx.Step(`^I register the recipe "([^"]*)" needing "([^"]*)" and making an? ([A-Z]+) "([^"]*)"$`, cc.iRegisterTheRecipe)
	ctx.Step(`^the registration should be rejected$`, cc.theRegistrationShouldBeRejected)
	ctx.Step(`^the recipes should be listed as "([^"]*)"$`, cc.theRecipesShouldBeListedAs)
	ctx.Step(`^the recipe "([^"]*)" should need "([^"]*)"$`, cc.theRecipeShouldNeed)

	// Queue
	ctx.Step(`^I queue "([^"]*)" for anyone$`, cc.iQueueForAnyone)
	ctx.Step(`^I queue "([^"]*)" for "([^"]*)"$`, cc.iQueueFor)
	ctx.Step(`^"([^"]*)" asks for work$`, cc.asksForWork)
	ctx.Step(`^"([^"]*)" completes the claimed task$`, cc.completesTheClaimedTask)
	ctx.Step(`^I cancel the claimed task of "([^"]*)"$`, cc.iCancelTheClaimedTaskOf)
	ctx.Step(`^I cancel the last queued task$`, cc.iCancelTheLastQueuedTask)
	ctx.Step(`^I cancel task (\d+)$`, cc.iCancelTask)
	ctx.Step(`^the system updates by "([^"]*)"$`, cc.theSystemUpdatesBy)
	ctx.Step(`^the queued task id should be invalid$`, cc.theQueuedTaskIDShouldBeInvalid)
	ctx.Step(`^the queued task ids should be strictly increasing$`, cc.theQueuedTaskIDsShouldBeStrictlyIncreasing)
	ctx.Step(`^the queue should hold (\d+) tasks?$`, cc.theQueueShouldHoldTasks)
	ctx.Step(`^the queue should hold "([^"]*)" unpinned$`, cc.theQueueShouldHoldUnpinned)
	ctx.Step(`^(\d+) tasks? should be active$`, cc.tasksShouldBeActive)
	ctx.Step(`^"([^"]*)" should have claimed a task$`, cc.shouldHaveClaimedATask)
	ctx.Step(`^"([^"]*)" should have claimed nothing$`, cc.shouldHaveClaimedNothing)
	ctx.Step(`^the claimed task of "([^"]*)" should be ready$`, cc.theClaimedTaskShouldBeReady)
	ctx.Step(`^an? ([A-Z]+) "([^"]*)" with durability (\d+) should be produced$`, cc.anItemWithDurabilityShouldBeProduced)
	ctx.Step(`^nothing should be produced$`, cc.nothingShouldBeProduced)
	ctx.Step(`^(\d+) cancellations? should have been announced$`, cc.cancellationsShouldHaveBeenAnnounced)

	// Resolver
	ctx.Step(`^"([^"]*)" checks whether "([^"]*)" can be crafted$`, cc.checksWhetherCanBeCrafted)
	ctx.Step(`^the colony checks whether "([^"]*)" can be crafted$`, cc.theColonyChecksWhetherCanBeCrafted)
	ctx.Step(`^the check should pass$`, cc.theCheckShouldPass)
	ctx.Step(`^the check should fail missing "([^"]*)"$`, cc.theCheckShouldFailMissing)
	ctx.Step(`^the check should fail without a breakdown$`, cc.theCheckShouldFailWithoutABreakdown)
	ctx.Step(`^"([^"]*)" consumes the ingredients of "([^"]*)"$`, cc.consumesTheIngredientsOf)
	ctx.Step(`^the consumption should succeed$`, cc.theConsumptionShouldSucceed)
	ctx.Step(`^the consumption should fail$`, cc.theConsumptionShouldFail)
	ctx.Step(`^"([^"]*)" should hold "([^"]*)"$`, cc.shouldHold)
	ctx.Step(`^storehouse "([^"]*)" should hold "([^"]*)"$`, cc.storehouseShouldHold)

	// Pending crafts
	ctx.Step(`^I park the failed check of "([^"]*)" for "([^"]*)"$`, cc.iParkTheFailedCheck)
	ctx.Step(`^I park "([^"]*)" for nobody missing "([^"]*)"$`, cc.iParkForNobody)
	ctx.Step(`^I park "([^"]*)" for "([^"]*)" missing "([^"]*)"$`, cc.iParkFor)
	ctx.Step(`^I cancel the pending craft of "([^"]*)" for "([^"]*)"$`, cc.iCancelThePendingCraft)
	ctx.Step(`^"([^"]*)" is delivered to "([^"]*)"$`, cc.isDeliveredTo)
	ctx.Step(`^"([^"]*)" is deposited in "([^"]*)"$`, cc.isDepositedIn)
	ctx.Step(`^"([^"]*)" should have no pending craft for "([^"]*)"$`, cc.shouldHaveNoPendingCraft)
	ctx.Step(`^"([^"]*)" should have a pending craft for "([^"]*)" missing "([^"]*)"$`, cc.shouldHaveAPendingCraftMissing)
	ctx.Step(`^there should be (\d+) pending crafts?$`, cc.thereShouldBePendingCrafts)
	ctx.Step(`^(\d+) gather requests? should be open$`, cc.gatherRequestsShouldBeOpen)
	ctx.Step(`^(\d+) resumes? should have been announced$`, cc.resumesShouldHaveBeenAnnounced)
}

// parseAmounts reads "Wood:1, Stone:2"
func parseAmounts(s string) ([]crafting.ResourceAmount, error) {
	var out []crafting.ResourceAmount
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kind, amount, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad amount %q (want Kind:N)", part)
		}
		n, err := strconv.Atoi(amount)
		if err != nil {
			return nil, fmt.Errorf("bad amount %q: %w", part, err)
		}
		out = append(out, crafting.ResourceAmount{Kind: crafting.ResourceKind(kind), Amount: n})
	}
	return out, nil
}

func parseHoldings(s string) (map[crafting.ResourceKind]int, error) {
	amounts, err := parseAmounts(s)
	if err != nil {
		return nil, err
	}
	holdings := make(map[crafting.ResourceKind]int, len(amounts))
	for _, a := range amounts {
		holdings[a.Kind] += a.Amount
	}
	return holdings, nil
}

func sameAmounts(want, got []crafting.ResourceAmount) error {
	if crafting.FormatAmounts(want) != crafting.FormatAmounts(got) {
		return fmt.Errorf("expected %q, got %q", crafting.FormatAmounts(want), crafting.FormatAmounts(got))
	}
	return nil
}

func (cc *craftingContext) agent(name string) (shared.AgentID, error) {
	return shared.NewAgentID(name)
}

// ============================================================================
// Setup Steps
// ============================================================================

func (cc *craftingContext) aColonyCraftingSystem() error {
	cc.bus = events.NewNotificationBus()
	cc.clock = shared.NewManualClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	cc.colony = colony.NewColony(cc.bus, cc.clock)
	cc.system = appCrafting.NewCraftingSystem(appCrafting.Context{
		Bus:       cc.bus,
		Agents:    cc.colony.Roster,
		Buildings: cc.colony.Settlement,
		Storage:   cc.colony.Storage,
		Gatherer:  cc.colony.Gather,
		Clock:     cc.clock,
		Options:   appCrafting.DefaultOptions(),
	})

	cc.bus.Subscribe(crafting.EventTaskCancelled, func(crafting.Event) { cc.cancellations++ })
	cc.bus.Subscribe(crafting.EventCraftResumed, func(crafting.Event) { cc.resumes++ })
	return nil
}

func (cc *craftingContext) buildRecipe(id, ingredients, kind, itemID string) (crafting.Recipe, error) {
	amounts, err := parseAmounts(ingredients)
	if err != nil {
		return crafting.Recipe{}, err
	}
	return crafting.NewRecipe(crafting.RecipeID(id), "", "", 0, amounts,
		crafting.ResultSpec{ItemID: itemID, Kind: crafting.ItemKind(kind), Amount: 1}, "")
}

func (cc *craftingContext) theRecipeNeedsAndMakes(id, ingredients, kind, itemID string) error {
	recipe, err := cc.buildRecipe(id, ingredients, kind, itemID)
	if err != nil {
		return err
	}
	if !cc.system.RegisterRecipe(recipe) {
		return fmt.Errorf("recipe %s was already registered", id)
	}
	return nil
}

// theRecipes registers one recipe per row of an id | needs | kind | item table
func (cc *craftingContext) theRecipes(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("recipe table needs a header and at least one row")
	}
	for _, row := range table.Rows[1:] {
		if err := cc.theRecipeNeedsAndMakes(
			cellValue(table, row, "id"),
			cellValue(table, row, "needs"),
			cellValue(table, row, "kind"),
			cellValue(table, row, "item"),
		); err != nil {
			return err
		}
	}
	return nil
}

// cellValue reads a cell by header name; the first table row is the header
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (cc *craftingContext) colonistHoldsNothing(name string) error {
	_, err := cc.colony.AddColonist(name, "", 0, nil)
	return err
}

func (cc *craftingContext) colonistHolds(name, holdings string) error {
	stock, err := parseHoldings(holdings)
	if err != nil {
		return err
	}
	_, err = cc.colony.AddColonist(name, "", 0, stock)
	return err
}

func (cc *craftingContext) addStorehouse(name string, built bool, holdings string) error {
	stock, err := parseHoldings(holdings)
	if err != nil {
		return err
	}
	_, err = cc.colony.AddStorehouse(name, name, built, 0, stock)
	return err
}

func (cc *craftingContext) aBuiltStorehouseHoldsNothing(name string) error {
	return cc.addStorehouse(name, true, "")
}

func (cc *craftingContext) aBuiltStorehouseHolds(name, holdings string) error {
	return cc.addStorehouse(name, true, holdings)
}

func (cc *craftingContext) anUnbuiltStorehouseHolds(name, holdings string) error {
	return cc.addStorehouse(name, false, holdings)
}

// ============================================================================
// Registry Steps
// ============================================================================

func (cc *craftingContext) iRegisterTheRecipe(id, ingredients, kind, itemID string) error {
	recipe, err := cc.buildRecipe(id, ingredients, kind, itemID)
	if err != nil {
		return err
	}
	cc.registered = cc.system.RegisterRecipe(recipe)
	return nil
}

func (cc *craftingContext) theRegistrationShouldBeRejected() error {
	if cc.registered {
		return fmt.Errorf("expected the registration to be rejected")
	}
	return nil
}

func (cc *craftingContext) theRecipesShouldBeListedAs(expected string) error {
	ids := make([]string, 0)
	for _, r := range cc.system.ListRecipes() {
		ids = append(ids, string(r.ID()))
	}
	if got := strings.Join(ids, ", "); got != expected {
		return fmt.Errorf("expected recipes %q, got %q", expected, got)
	}
	return nil
}

func (cc *craftingContext) theRecipeShouldNeed(id, ingredients string) error {
	recipe, ok := cc.system.LookupRecipe(crafting.RecipeID(id))
	if !ok {
		return fmt.Errorf("recipe %s not found", id)
	}
	want, err := parseAmounts(ingredients)
	if err != nil {
		return err
	}
	return sameAmounts(want, recipe.Ingredients())
}

// ============================================================================
// Queue Steps
// ============================================================================

func (cc *craftingContext) iQueueForAnyone(recipeID string) error {
	cc.queued = append(cc.queued, cc.system.QueueTask(crafting.RecipeID(recipeID), shared.NoAgent))
	return nil
}

func (cc *craftingContext) iQueueFor(recipeID, name string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	cc.queued = append(cc.queued, cc.system.QueueTask(crafting.RecipeID(recipeID), agentID))
	return nil
}

func (cc *craftingContext) asksForWork(name string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	if task, ok := cc.system.GetAvailableTask(agentID); ok {
		cc.claimed[name] = task.ID()
	}
	return nil
}

func (cc *craftingContext) completesTheClaimedTask(name string) error {
	taskID, ok := cc.claimed[name]
	if !ok {
		return fmt.Errorf("%s has not claimed a task", name)
	}
	cc.produced = nil
	if item, ok := cc.system.CompleteTask(taskID); ok {
		cc.produced = &item
	}
	return nil
}

func (cc *craftingContext) iCancelTheClaimedTaskOf(name string) error {
	taskID, ok := cc.claimed[name]
	if !ok {
		return fmt.Errorf("%s has not claimed a task", name)
	}
	if !cc.system.CancelTask(taskID) {
		return fmt.Errorf("task %d was not cancelled", taskID)
	}
	return nil
}

func (cc *craftingContext) iCancelTheLastQueuedTask() error {
	if len(cc.queued) == 0 {
		return fmt.Errorf("nothing was queued")
	}
	taskID := cc.queued[len(cc.queued)-1]
	if !cc.system.CancelTask(taskID) {
		return fmt.Errorf("task %d was not cancelled", taskID)
	}
	return nil
}

func (cc *craftingContext) iCancelTask(id int) error {
	if cc.system.CancelTask(crafting.TaskID(id)) {
		return fmt.Errorf("cancelling unknown task %d should be a no-op", id)
	}
	return nil
}

func (cc *craftingContext) theSystemUpdatesBy(duration string) error {
	dt, err := time.ParseDuration(duration)
	if err != nil {
		return err
	}
	cc.clock.Advance(dt)
	cc.system.Update(dt)
	return nil
}

func (cc *craftingContext) theQueuedTaskIDShouldBeInvalid() error {
	if len(cc.queued) == 0 {
		return fmt.Errorf("nothing was queued")
	}
	if id := cc.queued[len(cc.queued)-1]; id.IsValid() {
		return fmt.Errorf("expected an invalid task id, got %d", id)
	}
	return nil
}

func (cc *craftingContext) theQueuedTaskIDsShouldBeStrictlyIncreasing() error {
	for i := 1; i < len(cc.queued); i++ {
		if cc.queued[i] <= cc.queued[i-1] {
			return fmt.Errorf("task ids not increasing: %v", cc.queued)
		}
	}
	return nil
}

func (cc *craftingContext) theQueueShouldHoldTasks(n int) error {
	if got := len(cc.system.ListQueue()); got != n {
		return fmt.Errorf("expected %d queued tasks, got %d", n, got)
	}
	return nil
}

func (cc *craftingContext) theQueueShouldHoldUnpinned(recipeID string) error {
	queue := cc.system.ListQueue()
	if len(queue) != 1 {
		return fmt.Errorf("expected 1 queued task, got %d", len(queue))
	}
	if queue[0].RecipeID() != crafting.RecipeID(recipeID) {
		return fmt.Errorf("expected %s queued, got %s", recipeID, queue[0].RecipeID())
	}
	if queue[0].IsPinned() {
		return fmt.Errorf("expected the resumed task to be unpinned")
	}
	return nil
}

func (cc *craftingContext) tasksShouldBeActive(n int) error {
	if got := len(cc.system.ListActive()); got != n {
		return fmt.Errorf("expected %d active tasks, got %d", n, got)
	}
	return nil
}

func (cc *craftingContext) shouldHaveClaimedATask(name string) error {
	if _, ok := cc.claimed[name]; !ok {
		return fmt.Errorf("expected %s to have claimed a task", name)
	}
	return nil
}

func (cc *craftingContext) shouldHaveClaimedNothing(name string) error {
	if id, ok := cc.claimed[name]; ok {
		return fmt.Errorf("expected %s to claim nothing, got task %d", name, id)
	}
	return nil
}

func (cc *craftingContext) theClaimedTaskShouldBeReady(name string) error {
	task, ok := cc.system.GetTask(cc.claimed[name])
	if !ok {
		return fmt.Errorf("claimed task of %s not found", name)
	}
	if !task.IsReadyToComplete() {
		return fmt.Errorf("expected task %d to be ready, progress %.2f", task.ID(), task.Progress())
	}
	return nil
}

func (cc *craftingContext) anItemWithDurabilityShouldBeProduced(kind, itemID string, durability int) error {
	if cc.produced == nil {
		return fmt.Errorf("expected an item, got nothing")
	}
	if string(cc.produced.Kind) != kind || cc.produced.ItemID != itemID {
		return fmt.Errorf("expected %s %s, got %s %s", kind, itemID, cc.produced.Kind, cc.produced.ItemID)
	}
	if cc.produced.Durability != durability {
		return fmt.Errorf("expected durability %d, got %d", durability, cc.produced.Durability)
	}
	return nil
}

func (cc *craftingContext) nothingShouldBeProduced() error {
	if cc.produced != nil {
		return fmt.Errorf("expected nothing, got %s", cc.produced.ItemID)
	}
	return nil
}

func (cc *craftingContext) cancellationsShouldHaveBeenAnnounced(n int) error {
	if cc.cancellations != n {
		return fmt.Errorf("expected %d cancellations, got %d", n, cc.cancellations)
	}
	return nil
}

// ============================================================================
// Resolver Steps
// ============================================================================

func (cc *craftingContext) checksWhetherCanBeCrafted(name, recipeID string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	cc.checkOK, cc.checkMissing = cc.system.CanCraft(crafting.RecipeID(recipeID), agentID, true)
	return nil
}

func (cc *craftingContext) theColonyChecksWhetherCanBeCrafted(recipeID string) error {
	cc.checkOK, cc.checkMissing = cc.system.CanCraft(crafting.RecipeID(recipeID), shared.NoAgent, true)
	return nil
}

func (cc *craftingContext) theCheckShouldPass() error {
	if !cc.checkOK {
		return fmt.Errorf("expected the check to pass, missing %s", crafting.FormatAmounts(cc.checkMissing))
	}
	return nil
}

func (cc *craftingContext) theCheckShouldFailMissing(expected string) error {
	if cc.checkOK {
		return fmt.Errorf("expected the check to fail")
	}
	want, err := parseAmounts(expected)
	if err != nil {
		return err
	}
	return sameAmounts(want, cc.checkMissing)
}

func (cc *craftingContext) theCheckShouldFailWithoutABreakdown() error {
	if cc.checkOK {
		return fmt.Errorf("expected the check to fail")
	}
	if len(cc.checkMissing) != 0 {
		return fmt.Errorf("expected no breakdown, got %s", crafting.FormatAmounts(cc.checkMissing))
	}
	return nil
}

func (cc *craftingContext) consumesTheIngredientsOf(name, recipeID string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	cc.consumed = cc.system.ConsumeIngredients(crafting.RecipeID(recipeID), agentID)
	return nil
}

func (cc *craftingContext) theConsumptionShouldSucceed() error {
	if !cc.consumed {
		return fmt.Errorf("expected the consumption to succeed")
	}
	return nil
}

func (cc *craftingContext) theConsumptionShouldFail() error {
	if cc.consumed {
		return fmt.Errorf("expected the consumption to fail")
	}
	return nil
}

func (cc *craftingContext) shouldHold(name, holdings string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	colonist, ok := cc.colony.Roster.Colonist(agentID)
	if !ok {
		return fmt.Errorf("colonist %s not found", name)
	}
	want, err := parseAmounts(holdings)
	if err != nil {
		return err
	}
	for _, a := range want {
		if got := colonist.Holdings().ResourceAmount(a.Kind); got != a.Amount {
			return fmt.Errorf("expected %s to hold %d %s, got %d", name, a.Amount, a.Kind, got)
		}
	}
	return nil
}

func (cc *craftingContext) storehouseShouldHold(name, holdings string) error {
	depot, ok := cc.colony.Storage.Depot(name)
	if !ok {
		return fmt.Errorf("storehouse %s not found", name)
	}
	want, err := parseAmounts(holdings)
	if err != nil {
		return err
	}
	for _, a := range want {
		if got := depot.Amount(a.Kind); got != a.Amount {
			return fmt.Errorf("expected %s to hold %d %s, got %d", name, a.Amount, a.Kind, got)
		}
	}
	return nil
}

// ============================================================================
// Pending Craft Steps
// ============================================================================

func (cc *craftingContext) iParkTheFailedCheck(name, recipeID string) error {
	if cc.checkOK {
		return fmt.Errorf("the last check passed, nothing to park")
	}
	return cc.park(name, recipeID, cc.checkMissing)
}

func (cc *craftingContext) iParkFor(recipeID, name, missing string) error {
	amounts, err := parseAmounts(missing)
	if err != nil {
		return err
	}
	return cc.park(name, recipeID, amounts)
}

func (cc *craftingContext) iParkForNobody(recipeID, missing string) error {
	amounts, err := parseAmounts(missing)
	if err != nil {
		return err
	}
	cc.system.RecordPendingCraft(shared.NoAgent, crafting.RecipeID(recipeID), amounts)
	return nil
}

func (cc *craftingContext) park(name, recipeID string, missing []crafting.ResourceAmount) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	cc.system.RecordPendingCraft(agentID, crafting.RecipeID(recipeID), missing)
	return nil
}

func (cc *craftingContext) iCancelThePendingCraft(name, recipeID string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	if !cc.system.CancelPendingCraft(agentID, crafting.RecipeID(recipeID)) {
		return fmt.Errorf("no pending craft of %s for %s", recipeID, name)
	}
	return nil
}

func (cc *craftingContext) isDeliveredTo(amount, name string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	amounts, err := parseAmounts(amount)
	if err != nil {
		return err
	}
	for _, a := range amounts {
		if err := cc.colony.Deliver(agentID, a.Kind, a.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (cc *craftingContext) isDepositedIn(amount, name string) error {
	depot, ok := cc.colony.Storage.Depot(name)
	if !ok {
		return fmt.Errorf("storehouse %s not found", name)
	}
	amounts, err := parseAmounts(amount)
	if err != nil {
		return err
	}
	for _, a := range amounts {
		if err := depot.Deposit(a.Kind, a.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (cc *craftingContext) shouldHaveNoPendingCraft(name, recipeID string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	if _, ok := cc.system.PendingCraft(agentID, crafting.RecipeID(recipeID)); ok {
		return fmt.Errorf("expected no pending craft of %s for %s", recipeID, name)
	}
	return nil
}

func (cc *craftingContext) shouldHaveAPendingCraftMissing(name, recipeID, missing string) error {
	agentID, err := cc.agent(name)
	if err != nil {
		return err
	}
	entry, ok := cc.system.PendingCraft(agentID, crafting.RecipeID(recipeID))
	if !ok {
		return fmt.Errorf("expected a pending craft of %s for %s", recipeID, name)
	}
	want, err := parseAmounts(missing)
	if err != nil {
		return err
	}
	return sameAmounts(want, entry.Missing())
}

func (cc *craftingContext) thereShouldBePendingCrafts(n int) error {
	if got := len(cc.system.PendingCrafts()); got != n {
		return fmt.Errorf("expected %d pending crafts, got %d", n, got)
	}
	return nil
}

func (cc *craftingContext) gatherRequestsShouldBeOpen(n int) error {
	if got := len(cc.colony.Gather.Open()); got != n {
		return fmt.Errorf("expected %d open gather requests, got %d", n, got)
	}
	return nil
}

func (cc *craftingContext) resumesShouldHaveBeenAnnounced(n int) error {
	if cc.resumes != n {
		return fmt.Errorf("expected %d resumes, got %d", n, cc.resumes)
	}
	return nil
}
