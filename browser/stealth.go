package browser

// stealthScript masks the most common automation fingerprints.
const stealthScript = `
// Mask webdriver property
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined,
});

// Add Chrome runtime object
window.chrome = window.chrome || {
    runtime: {},
    loadTimes: function() {},
    csi: function() {},
    app: {},
};

Object.defineProperty(navigator, 'languages', {
    get: () => ['vi-VN', 'vi', 'en-US', 'en'],
});

// Notifications are disabled; report them as denied rather than prompting
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
    parameters.name === 'notifications' ?
        Promise.resolve({ state: 'denied' }) :
        originalQuery(parameters)
);
`
