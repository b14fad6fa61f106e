// bankshell is the interactive console front end. It renders prompts and
// menus only; every rule lives in the services, and an expired session drops
// the actor straight back to the login prompt.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhalaf/bankcore/infra"
	infrarepo "github.com/mkhalaf/bankcore/infra/repository"
	"github.com/mkhalaf/bankcore/pkg/config"
	"github.com/mkhalaf/bankcore/pkg/domain"
	"github.com/mkhalaf/bankcore/pkg/dto"
	"github.com/mkhalaf/bankcore/pkg/service/auth"
	"github.com/mkhalaf/bankcore/pkg/service/goals"
	"github.com/mkhalaf/bankcore/pkg/service/registry"
	"github.com/mkhalaf/bankcore/pkg/service/reporting"
	"github.com/mkhalaf/bankcore/pkg/service/transfer"
	"github.com/mkhalaf/bankcore/pkg/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(slog.Default())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := newLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	uow := infrarepo.NewUoW(db)
	sessions := session.NewRegistry(cfg.Session.IdleTimeout)

	sh := &shell{
		in:        bufio.NewScanner(os.Stdin),
		auth:      auth.New(uow, sessions, logger),
		registry:  registry.New(uow, logger),
		transfers: transfer.New(uow, sessions, logger),
		goals:     goals.New(uow, logger),
		reports:   reporting.New(uow, logger),
	}
	sh.loop()
	return nil
}

func newLogger(cnf config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cnf.Level)}
	if cnf.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

type shell struct {
	in        *bufio.Scanner
	auth      *auth.Service
	registry  *registry.Service
	transfers *transfer.Service
	goals     *goals.Service
	reports   *reporting.Service

	sess *session.Session
}

func (s *shell) loop() {
	for {
		if s.sess == nil || s.sess.Closed() {
			if !s.entryMenu() {
				return
			}
			continue
		}
		if !s.mainMenu() {
			return
		}
	}
}

// entryMenu runs until a session is opened or the actor quits.
func (s *shell) entryMenu() bool {
	fmt.Println("\n=== Banking Console ===")
	fmt.Println(" 1. Login")
	fmt.Println(" 2. Enroll")
	fmt.Println(" 0. Quit")
	switch s.prompt("choice") {
	case "1":
		s.login()
	case "2":
		s.enroll()
	case "0", "":
		return false
	}
	return true
}

func (s *shell) mainMenu() bool {
	fmt.Println("\n--- Main Menu ---")
	fmt.Println(" 1. Register location")
	fmt.Println(" 2. Register bank")
	fmt.Println(" 3. Open branch")
	fmt.Println(" 4. Open account")
	fmt.Println(" 5. Transfer money")
	fmt.Println(" 6. Create budget")
	fmt.Println(" 7. Update budget limit")
	fmt.Println(" 8. Create savings goal")
	fmt.Println(" 9. Purge expired goals")
	fmt.Println("10. Reports")
	fmt.Println(" 0. Logout")

	var err error
	switch s.prompt("choice") {
	case "1":
		err = s.createLocation()
	case "2":
		err = s.createBank()
	case "3":
		err = s.createBranch()
	case "4":
		err = s.openAccount()
	case "5":
		err = s.doTransfer()
	case "6":
		err = s.createBudget()
	case "7":
		err = s.updateBudgetLimit()
	case "8":
		err = s.createGoal()
	case "9":
		err = s.purgeGoals()
	case "10":
		err = s.reportMenu()
	case "0":
		s.auth.Logout(s.sess)
		s.sess = nil
		return true
	case "":
		return false
	}
	s.report(err)
	return true
}

// report prints the outcome; session expiry additionally drops the actor back
// to the entry menu.
func (s *shell) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionExpired):
		fmt.Println("Your session has expired, please log in again.")
		s.sess = nil
	case errors.Is(err, domain.ErrSecurity):
		fmt.Println("Refused:", err)
		if s.sess != nil && s.sess.Closed() {
			s.sess = nil
		}
	default:
		fmt.Println("Error:", err)
	}
}

func (s *shell) login() {
	key := s.promptPersonKey("your")
	secret := s.prompt("password")
	sess, err := s.auth.Login(context.Background(), key, secret)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	s.sess = sess
	fmt.Println("Welcome.")
}

func (s *shell) enroll() {
	in := dto.PersonCreate{
		Nationality: s.prompt("nationality"),
		NationalID:  s.prompt("national id"),
		Password:    s.prompt("password"),
		DateOfBirth: s.prompt("date of birth (YYYY-MM-DD)"),
		Phone:       s.prompt("phone"),
		FirstName:   s.prompt("first name"),
		MiddleName:  s.prompt("middle name (optional)"),
		LastName:    s.prompt("last name"),
	}
	in.AnnualIncome = s.promptDecimal("annual income")
	in.AnnualExpenditure = s.promptDecimal("annual expenditure")
	for _, e := range strings.Split(s.prompt("emails (comma separated)"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			in.Emails = append(in.Emails, e)
		}
	}
	if s.prompt("has custodian? (y/N)") == "y" {
		in.CustodianNationality = s.prompt("custodian nationality")
		in.CustodianNationalID = s.prompt("custodian national id")
	}
	key, err := s.registry.CreatePerson(context.Background(), in)
	if err != nil {
		fmt.Println("Enrollment failed:", err)
		return
	}
	fmt.Printf("Enrolled %s/%s. You can log in now.\n", key.Nationality, key.NationalID)
}

func (s *shell) createLocation() error {
	return s.registry.CreateLocation(context.Background(), s.sess, dto.LocationCreate{
		Country: s.prompt("country"),
		Pincode: s.prompt("pincode"),
		State:   s.prompt("state"),
		City:    s.prompt("city"),
	})
}

func (s *shell) createBank() error {
	in := dto.BankCreate{Name: s.prompt("bank name")}
	head := s.promptPersonKey("global head")
	in.HeadNationality, in.HeadNationalID = head.Nationality, head.NationalID
	in.Country = s.prompt("country")
	in.Pincode = s.prompt("pincode")
	id, err := s.registry.CreateBank(context.Background(), s.sess, in)
	if err != nil {
		return err
	}
	fmt.Println("Bank registered with id", id)
	return nil
}

func (s *shell) createBranch() error {
	in := dto.BranchCreate{BankID: s.promptInt("bank id")}
	manager := s.promptPersonKey("branch manager")
	in.ManagerNationality, in.ManagerNationalID = manager.Nationality, manager.NationalID
	in.Country = s.prompt("country")
	in.Pincode = s.prompt("pincode")
	code, err := s.registry.CreateBranch(context.Background(), s.sess, in)
	if err != nil {
		return err
	}
	fmt.Println("Branch opened with code", code)
	return nil
}

func (s *shell) openAccount() error {
	owner := s.promptPersonKey("account owner")
	in := dto.AccountCreate{
		OwnerNationality: owner.Nationality,
		OwnerNationalID:  owner.NationalID,
		BankID:           s.promptInt("bank id"),
		BranchCode:       s.promptInt("branch code"),
		Type:             s.prompt("type (current/saving/salary/demat/fixed_deposit)"),
		InitialBalance:   s.promptDecimal("initial balance"),
	}
	switch in.Type {
	case "current":
		in.MinBalance = s.promptDecimal("minimum balance")
		in.MonthlyTransactionLimit = int(s.promptInt("monthly transaction limit"))
	case "saving":
		in.MinBalance = s.promptDecimal("minimum balance")
		in.InterestRate = s.promptDecimal("interest rate")
		in.MonthlyWithdrawalLimit = int(s.promptInt("monthly withdrawal limit"))
	case "salary":
		in.OrganisationID = s.prompt("organisation id")
		in.EmployeeID = s.prompt("employee id")
	case "demat":
		in.DPID = s.prompt("depository participant id")
		in.TradingAccountLink = s.prompt("trading account link")
		in.MaintenanceCharges = s.promptDecimal("maintenance charges")
	case "fixed_deposit":
		in.LockedUntil = s.prompt("locked until (YYYY-MM-DD)")
		in.MaturityDate = s.prompt("maturity date (YYYY-MM-DD)")
		in.PrematurePenalty = s.promptDecimal("premature withdrawal penalty")
	}
	number, err := s.registry.OpenAccount(context.Background(), s.sess, in)
	if err != nil {
		return err
	}
	fmt.Println("Account opened with number", number)
	return nil
}

func (s *shell) doTransfer() error {
	in := dto.TransferRequest{
		SenderAccount:   s.promptInt("from account"),
		ReceiverAccount: s.promptInt("to account"),
		Amount:          s.promptDecimal("amount"),
		Secret:          s.prompt("transaction password"),
	}
	id, err := s.transfers.Execute(context.Background(), s.sess, in)
	if err != nil {
		return err
	}
	fmt.Println("Transfer complete, transaction id", id)
	return nil
}

func (s *shell) createBudget() error {
	owner := s.promptPersonKey("budget owner")
	return s.registry.CreateBudget(context.Background(), s.sess, dto.BudgetCreate{
		Category:     s.prompt("category"),
		Nationality:  owner.Nationality,
		NationalID:   owner.NationalID,
		Limit:        s.promptDecimal("limit"),
		DurationDate: s.prompt("window end date (YYYY-MM-DD)"),
		DurationTime: s.prompt("window end time (HH:MM:SS)"),
	})
}

func (s *shell) updateBudgetLimit() error {
	owner := s.promptPersonKey("budget owner")
	in := dto.BudgetLimitUpdate{
		Category:    s.prompt("category"),
		Nationality: owner.Nationality,
		NationalID:  owner.NationalID,
		NewLimit:    s.promptDecimal("new limit"),
	}
	advisory, err := s.registry.UpdateBudgetLimit(context.Background(), s.sess, in)
	if err != nil {
		return err
	}
	if advisory != nil {
		fmt.Printf("Warning: new limit %s exceeds annual income %s.\n",
			advisory.NewLimit, advisory.AnnualIncome)
		if s.prompt("apply anyway? (y/N)") != "y" {
			fmt.Println("Budget left unchanged.")
			return nil
		}
		in.AcknowledgeWarning = true
		if _, err := s.registry.UpdateBudgetLimit(context.Background(), s.sess, in); err != nil {
			return err
		}
	}
	fmt.Println("Budget limit updated.")
	return nil
}

func (s *shell) createGoal() error {
	owner := s.promptPersonKey("goal owner")
	return s.registry.CreateGoal(context.Background(), s.sess, dto.GoalCreate{
		Name:         s.prompt("goal name"),
		Nationality:  owner.Nationality,
		NationalID:   owner.NationalID,
		TargetAmount: s.promptDecimal("target amount"),
		DeadlineDate: s.prompt("deadline date (YYYY-MM-DD)"),
		DeadlineTime: s.prompt("deadline time (HH:MM:SS)"),
	})
}

func (s *shell) purgeGoals() error {
	expired, err := s.goals.FindExpired(context.Background(), s.sess)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		fmt.Println("No expired goals.")
		return nil
	}
	fmt.Println("Expired, unmet goals:")
	keys := make([]domain.GoalKey, 0, len(expired))
	for _, g := range expired {
		fmt.Printf("  %s (%s/%s): saved %s of %s, deadline %s\n",
			g.Name, g.Nationality, g.NationalID,
			g.CurrentSaving, g.TargetAmount, g.Deadline.Format(time.DateTime))
		keys = append(keys, domain.GoalKey{
			Name:  g.Name,
			Owner: domain.PersonKey{Nationality: g.Nationality, NationalID: g.NationalID},
		})
	}
	if s.prompt("remove them? (y/N)") != "y" {
		return nil
	}
	removed, err := s.goals.PurgeExpired(context.Background(), s.sess, keys)
	if err != nil {
		return err
	}
	for _, g := range removed {
		fmt.Printf("Removed %s (%s/%s).\n", g.Name, g.Nationality, g.NationalID)
	}
	fmt.Printf("%d goal(s) removed.\n", len(removed))
	return nil
}

func (s *shell) reportMenu() error {
	fmt.Println("\n--- Reports ---")
	fmt.Println(" 1. Transactions of a person")
	fmt.Println(" 2. Accounts at a branch")
	fmt.Println(" 3. Persons above an income threshold")
	fmt.Println(" 4. Branch count per bank")
	fmt.Println(" 5. Amount sent by a person in a period")
	fmt.Println(" 6. Richest account")
	fmt.Println(" 7. Average expenditure per nationality")
	fmt.Println(" 8. Search persons by name")
	fmt.Println(" 9. Search banks by name")
	fmt.Println("10. Heavy spenders per nationality")
	fmt.Println("11. Frequent senders in a period")
	ctx := context.Background()
	switch s.prompt("choice") {
	case "1":
		rows, err := s.reports.PersonTransactions(ctx, s.sess, s.promptPersonKey("the"))
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  #%d  %s  %s -> %s  amount %s\n",
				r.TransactionID, r.At.Format(time.DateTime),
				strconv.FormatInt(r.SenderAccount, 10),
				strconv.FormatInt(r.ReceiverAccount, 10), r.Amount)
		}
	case "2":
		rows, err := s.reports.BranchAccounts(ctx, s.sess,
			s.promptInt("bank id"), s.promptInt("branch code"))
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  account %d  balance %s  holder %s (%s)  manager %s\n",
				r.AccountNumber, r.Balance, r.HolderName, r.HolderPhone, r.ManagerName)
		}
	case "3":
		rows, err := s.reports.HighIncomePersons(ctx, s.sess, s.promptDecimal("threshold"))
		if err != nil {
			return err
		}
		printPersons(rows)
	case "4":
		rows, err := s.reports.BankBranchCounts(ctx, s.sess)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  %s: %d branch(es)\n", r.BankName, r.BranchCount)
		}
	case "5":
		key := s.promptPersonKey("the")
		from, err := time.Parse("2006-01-02", s.prompt("from (YYYY-MM-DD)"))
		if err != nil {
			return domain.Wrap(domain.ErrValidation, "invalid start date")
		}
		to, err := time.Parse("2006-01-02", s.prompt("to (YYYY-MM-DD)"))
		if err != nil {
			return domain.Wrap(domain.ErrValidation, "invalid end date")
		}
		total, err := s.reports.TransactionTotal(ctx, s.sess, key, from, to.Add(24*time.Hour-time.Second))
		if err != nil {
			return err
		}
		fmt.Println("  total sent:", total)
	case "6":
		row, err := s.reports.MaxBalanceAccount(ctx, s.sess)
		if err != nil {
			return err
		}
		fmt.Printf("  account %d held by %s, balance %s\n",
			row.AccountNumber, row.HolderName, row.Balance)
	case "7":
		rows, err := s.reports.CountryExpenditure(ctx, s.sess)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  %s: average %s over %d person(s)\n",
				r.Nationality, r.AvgExpenditure, r.PersonCount)
		}
	case "8":
		rows, err := s.reports.SearchPersonsByName(ctx, s.sess, s.prompt("name contains"))
		if err != nil {
			return err
		}
		printPersons(rows)
	case "9":
		rows, err := s.reports.SearchBanksByName(ctx, s.sess, s.prompt("bank name contains"))
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  %s  %s/%s  %d branch(es)\n",
				r.BankName, r.Country, r.Pincode, r.BranchCount)
		}
	case "10":
		rows, err := s.reports.ExpenditurePatterns(ctx, s.sess,
			s.promptDecimal("spending above (% of income)"))
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  %s: %d person(s), average %s%% of income spent\n",
				r.Nationality, r.PersonCount, r.AvgSpendPercent.Round(1))
		}
	case "11":
		from, err := time.Parse("2006-01-02", s.prompt("from (YYYY-MM-DD)"))
		if err != nil {
			return domain.Wrap(domain.ErrValidation, "invalid start date")
		}
		to, err := time.Parse("2006-01-02", s.prompt("to (YYYY-MM-DD)"))
		if err != nil {
			return domain.Wrap(domain.ErrValidation, "invalid end date")
		}
		rows, err := s.reports.TransactionPatterns(ctx, s.sess,
			from, to.Add(24*time.Hour-time.Second), s.promptInt("minimum transfers"))
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("  %s: %d transfer(s), total %s, average %s\n",
				r.FullName, r.TransactionCount, r.TotalAmount, r.AvgAmount.Round(2))
		}
	}
	return nil
}

func printPersons(rows []dto.PersonRead) {
	for _, r := range rows {
		fmt.Printf("  %s (%s/%s)  phone %s  income %s\n",
			r.FullName, r.Nationality, r.NationalID, r.Phone, r.AnnualIncome)
	}
}

func (s *shell) prompt(label string) string {
	fmt.Printf("%s> ", label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *shell) promptPersonKey(whose string) domain.PersonKey {
	return domain.PersonKey{
		Nationality: s.prompt(whose + " nationality"),
		NationalID:  s.prompt(whose + " national id"),
	}
}

func (s *shell) promptInt(label string) int64 {
	for {
		raw := s.prompt(label)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return n
		}
		fmt.Println("Please enter a whole number.")
	}
}

func (s *shell) promptDecimal(label string) decimal.Decimal {
	for {
		raw := s.prompt(label)
		d, err := decimal.NewFromString(raw)
		if err == nil {
			return d
		}
		fmt.Println("Please enter an amount like 1234.56.")
	}
}
