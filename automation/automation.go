package automation

import (
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
)

// SubmitPreSale logs into the CallFarma web portal and uploads a
// generated pre-sale file, so terminals without a shared folder can still
// hand the file to the legacy system.
func SubmitPreSale(userID, password, filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("pre-sale file not found: %v", err)
	}

	// Leakless(false) avoids antivirus false positives on the terminals.
	u := launcher.New().
		Headless(false).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	fmt.Println("Opening the CallFarma portal...")
	page := browser.MustPage("https://portal.callfarma.com.br/")
	page.MustWaitStable()

	fmt.Println("Filling in login credentials...")
	if err := rod.Try(func() {
		page.MustElement("[name='usuario']").MustInput(userID)
	}); err != nil {
		return fmt.Errorf("login field not found: %v", err)
	}
	if err := rod.Try(func() {
		page.MustElement("[name='senha']").MustInput(password)
	}); err != nil {
		return fmt.Errorf("password field not found: %v", err)
	}

	fmt.Println("Submitting login...")
	loginBtn, err := page.ElementR("input, button, a", "Entrar")
	if err == nil {
		loginBtn.MustClick()
	} else {
		page.KeyActions().Press(input.Enter).MustDo()
	}
	page.MustWaitStable()

	fmt.Println("Opening the pre-sale import screen...")
	if err := rod.Try(func() {
		page.MustElementR("a, span, div", "Pré-venda").MustClick()
	}); err != nil {
		return fmt.Errorf("pre-sale menu not found (login may have failed): %v", err)
	}
	page.MustWaitStable()

	if err := rod.Try(func() {
		page.MustElement("input[type='file']").MustSetFiles(filePath)
	}); err != nil {
		return fmt.Errorf("file upload field not found: %v", err)
	}

	if err := rod.Try(func() {
		page.MustElementR("input, button", "Enviar").MustClick()
	}); err != nil {
		return fmt.Errorf("submit button not found: %v", err)
	}
	page.MustWaitStable()

	// Give the portal a moment to acknowledge before the browser closes.
	time.Sleep(2 * time.Second)

	fmt.Println("Pre-sale file submitted.")
	return nil
}
