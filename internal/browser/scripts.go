// internal/browser/scripts.go
package browser

// clickablesJS harvests everything that might be a booking control, with
// the raw geometry and text the finder needs for scoring. Each surviving
// element gets a data-scout-idx attribute so a later click can address it
// exactly. No scoring happens here; the page only reports what exists.
const clickablesJS = `(() => {
	const selector = 'a, button, input[type="submit"], input[type="button"], [role="button"], [onclick], li[onclick], div[onclick], span[onclick], [class*="book"], [class*="reserve"], [class*="btn"], [class*="button"], [class*="cta"]';
	const skipTags = ['script', 'style', 'svg', 'path', 'meta', 'link', 'head', 'noscript', 'template'];
	const results = [];
	let idx = 0;
	for (const el of document.querySelectorAll(selector)) {
		const tag = el.tagName.toLowerCase();
		if (skipTags.includes(tag)) continue;
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) continue;
		const text = (el.innerText || el.textContent || el.value || '').trim();
		const href = (typeof el.href === 'string' ? el.href : el.getAttribute('href') || '');
		el.setAttribute('data-scout-idx', String(idx));
		results.push({
			index: idx,
			tag: tag,
			text: text.substring(0, 80),
			href: href.substring(0, 500),
			id: el.id || '',
			classes: (typeof el.className === 'string' ? el.className : '').substring(0, 100),
			width: rect.width,
			height: rect.height
		});
		idx++;
		if (results.length >= 200) break;
	}
	return results;
})()`

// anchorsJS returns every link with the text signals used for booking
// intent checks: visible text, aria-label, and title.
const anchorsJS = `(() => {
	const results = [];
	for (const a of document.querySelectorAll('a[href]')) {
		const href = a.href;
		if (!href || !href.startsWith('http')) continue;
		results.push({
			href: href,
			text: (a.innerText || a.textContent || '').trim().substring(0, 120),
			ariaLabel: (a.getAttribute('aria-label') || '').substring(0, 120),
			title: (a.getAttribute('title') || '').substring(0, 120)
		});
		if (results.length >= 500) break;
	}
	return results;
})()`

// dismissOverlaysJS clicks the first visible cookie-consent button or
// modal close control. Returns true when something was clicked.
const dismissOverlaysJS = `(() => {
	const acceptTexts = ['accept all', 'accept', 'i agree', 'agree', 'got it', 'ok', 'allow', 'continue'];
	const visible = (el) => {
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};
	for (const el of document.querySelectorAll('button, a')) {
		const text = (el.innerText || el.textContent || '').trim().toLowerCase();
		if (!text || text.length > 20) continue;
		if (acceptTexts.includes(text) && visible(el)) {
			el.click();
			return true;
		}
	}
	const containers = document.querySelectorAll('[class*="cookie"], [id*="cookie"], [class*="consent"], [class*="gdpr"]');
	for (const c of containers) {
		const btn = c.querySelector('button');
		if (btn && visible(btn)) {
			btn.click();
			return true;
		}
	}
	for (const sel of ['[class*="popup"] [class*="close"]', '[class*="modal"] [class*="close"]', 'button[aria-label="Close"]', 'button[aria-label="close"]']) {
		const btn = document.querySelector(sel);
		if (btn && visible(btn)) {
			btn.click();
			return true;
		}
	}
	return false;
})()`
